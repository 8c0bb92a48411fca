package project

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	gitignore "github.com/sabhiram/go-gitignore"
)

// ignoreFilter decides which child directories are never sub-packages:
// hidden and build directories, vendored paths and anything the root
// .gitignore excludes.
type ignoreFilter struct {
	matcher *gitignore.GitIgnore
}

// loadIgnoreFilter compiles root/.gitignore when present. A missing or
// unreadable file leaves only the built-in rules active.
func loadIgnoreFilter(root string, logger *slog.Logger) *ignoreFilter {
	path := filepath.Join(root, ".gitignore")
	if !fileExists(path) {
		return &ignoreFilter{}
	}
	matcher, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		logger.Debug("ignoring unreadable .gitignore", "path", path, "error", err)
		return &ignoreFilter{}
	}
	return &ignoreFilter{matcher: matcher}
}

// Skip reports whether the directory at rel (slash separated, relative to
// the root) must not be scanned.
func (f *ignoreFilter) Skip(rel string) bool {
	rel = filepath.ToSlash(rel)
	name := rel[strings.LastIndex(rel, "/")+1:]
	if name == "" || strings.HasPrefix(name, ".") || skipDirs[name] {
		return true
	}
	if enry.IsVendor(rel + "/") {
		return true
	}
	if f.matcher != nil && (f.matcher.MatchesPath(rel) || f.matcher.MatchesPath(rel+"/")) {
		return true
	}
	return false
}
