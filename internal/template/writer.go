package template

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// File is one output destined for a path relative to the writer's root.
type File struct {
	Path    string // slash separated, relative to the root
	Content []byte
}

// WriteError reports a failed write for a single output path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer writes generated files beneath a project root. Existing files are
// overwritten in place; writes are not transactional.
type Writer interface {
	// Write validates and writes a single file, creating parent directories.
	Write(f File) error

	// WriteAll writes every file, continuing past failures. The returned
	// error joins one *WriteError per failed path. Cancellation stops the
	// remaining writes.
	WriteAll(ctx context.Context, files []File) ([]string, error)

	// Root returns the absolute root all paths are resolved against.
	Root() string
}

// fileWriter is the concrete implementation of Writer.
type fileWriter struct {
	root   string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at root.
func NewWriter(root string, logger *slog.Logger) Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &fileWriter{root: filepath.Clean(root), logger: logger}
}

func (w *fileWriter) Root() string {
	return w.root
}

// Write validates the path and writes the file.
func (w *fileWriter) Write(f File) error {
	if err := validateOutputPath(w.root, f.Path); err != nil {
		return &WriteError{Path: f.Path, Err: err}
	}

	destPath := filepath.Join(w.root, filepath.FromSlash(f.Path))
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &WriteError{Path: f.Path, Err: fmt.Errorf("mkdir %s: %w", destDir, err)}
	}
	if err := os.WriteFile(destPath, f.Content, 0o644); err != nil {
		return &WriteError{Path: f.Path, Err: err}
	}

	w.logger.Debug("wrote file", "path", f.Path, "bytes", len(f.Content))
	return nil
}

// WriteAll writes files in order and returns the paths that succeeded.
func (w *fileWriter) WriteAll(ctx context.Context, files []File) ([]string, error) {
	var (
		written []string
		errs    []error
	)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := w.Write(f); err != nil {
			w.logger.Warn("write failed", "path", f.Path, "error", err)
			errs = append(errs, err)
			continue
		}
		written = append(written, f.Path)
	}
	return written, errors.Join(errs...)
}

// validateOutputPath ensures an output path does not escape projectRoot.
func validateOutputPath(projectRoot, relPath string) error {
	if relPath == "" {
		return fmt.Errorf("%w: empty path", ErrPathTraversal)
	}

	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}

	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absPath := filepath.Join(projectRoot, cleaned)
	if !strings.HasPrefix(absPath, projectRoot+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}
	return nil
}
