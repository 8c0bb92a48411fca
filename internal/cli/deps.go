// Package cli provides the Cobra command tree and dependency wiring for the
// ai-rules CLI. This file defines the Dependencies struct (composition root)
// that wires the detector, composer, tool adapter and config store together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ai-rules/ai-rules-generator/internal/config"
	"github.com/ai-rules/ai-rules-generator/internal/core/project"
	"github.com/ai-rules/ai-rules-generator/internal/defs"
	"github.com/ai-rules/ai-rules-generator/internal/rules"
	"github.com/ai-rules/ai-rules-generator/internal/tools"
	"github.com/ai-rules/ai-rules-generator/internal/ui"
)

// Dependencies holds the services used by CLI commands. It is the only
// place where concrete types are instantiated.
type Dependencies struct {
	Store    *config.Store
	Detector project.Detector
	Adapter  *tools.Adapter
	Theme    *ui.Theme
	Headless *ui.HeadlessManager
	Progress ui.Progress
	Logger   *slog.Logger

	// ProviderFactory overrides the model client constructor. Nil uses the
	// real OpenAI and Anthropic clients.
	ProviderFactory rules.ProviderFactory

	// Confirm overrides the yes/no prompt. Nil uses ui.Confirm.
	Confirm func(question string, def bool) (bool, error)
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// InitDependencies creates and wires all dependencies. It should be called
// once during startup. The config store is created lazily by EnsureStore
// because resolving the user configuration directory can fail.
func InitDependencies() {
	deps = NewDependencies(newLogger(os.Getenv(defs.EnvLogLevel), os.Stderr))
}

// NewDependencies wires the default implementations around logger.
func NewDependencies(logger *slog.Logger) *Dependencies {
	theme := ui.ThemeFromEnv()
	hm := ui.NewHeadlessManager()
	return &Dependencies{
		Detector: project.NewDetector(nil, nil, logger),
		Adapter:  tools.NewAdapter(nil, logger),
		Theme:    theme,
		Headless: hm,
		Progress: ui.NewProgress(theme, hm),
		Logger:   logger,
	}
}

// GetDeps returns the current Dependencies instance.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// confirm asks a yes/no question; headless runs get def.
func (d *Dependencies) confirm(question string, def bool) (bool, error) {
	if d.Confirm != nil {
		return d.Confirm(question, def)
	}
	return ui.Confirm(d.Theme, d.Headless, question, def)
}

// EnsureStore lazily creates the config store in the default directory.
func (d *Dependencies) EnsureStore() (*config.Store, error) {
	if d.Store != nil {
		return d.Store, nil
	}
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}
	d.Store = config.NewStore(dir, d.Logger)
	return d.Store, nil
}

// Composer builds a composer logging through logger.
func (d *Dependencies) Composer(logger *slog.Logger) *rules.Composer {
	opts := []rules.Option{rules.WithLogger(logger)}
	if d.ProviderFactory != nil {
		opts = append(opts, rules.WithProviderFactory(d.ProviderFactory))
	}
	return rules.NewComposer(opts...)
}

// SetLogger swaps the logger of every logging component.
func (d *Dependencies) SetLogger(logger *slog.Logger) {
	d.Logger = logger
	d.Detector = project.NewDetector(nil, nil, logger)
	d.Adapter = tools.NewAdapter(nil, logger)
	if d.Store != nil {
		d.Store = config.NewStore(filepath.Dir(d.Store.Path()), logger)
	}
}

// newLogger returns a text logger on w at the given level, or a discarding
// logger when level is empty or unknown.
func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func requireDeps() error {
	if deps == nil {
		return fmt.Errorf("dependencies not initialized")
	}
	return nil
}
