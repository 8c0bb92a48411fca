package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// Generation defaults shared by every backend.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4000
)

// Request is a single completion request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int64
	Temperature float64
}

// Provider produces Markdown from a prompt.
type Provider interface {
	// Name returns the backend identifier.
	Name() models.Provider

	// Model returns the model identifier sent with each request.
	Model() string

	// Complete sends one request and returns the response text. Whitespace-only
	// responses are reported as ErrEmptyResponse.
	Complete(ctx context.Context, req Request) (string, error)
}

type options struct {
	baseURL string
	logger  *slog.Logger
}

// Option configures a Provider built by New.
type Option func(*options)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds the Provider selected by cfg. It returns ErrDisabled when AI
// generation is turned off and ErrMissingAPIKey when the selected provider
// has no key.
func New(cfg *models.GlobalConfig, opts ...Option) (Provider, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg == nil || !cfg.AIEnabled() {
		return nil, ErrDisabled
	}

	model := cfg.AIModel
	if model == "" {
		model = DefaultModel(cfg.AIProvider)
	}

	key := cfg.APIKey()
	switch cfg.AIProvider {
	case models.ProviderOpenAI:
		if key == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, cfg.AIProvider)
		}
		return newOpenAI(key, model, o), nil
	case models.ProviderAnthropic:
		if key == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, cfg.AIProvider)
		}
		return newAnthropic(key, model, o), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, cfg.AIProvider)
	}
}
