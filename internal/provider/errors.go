// Package provider wraps the language-model APIs used to draft the project
// rules document. Every call is a single attempt; callers fall back to
// templates on any error.
package provider

import "errors"

// Sentinel errors for provider construction and responses.
var (
	// ErrDisabled indicates the configured provider is "none".
	ErrDisabled = errors.New("provider: AI generation disabled")

	// ErrMissingAPIKey indicates no API key is available for the provider.
	ErrMissingAPIKey = errors.New("provider: API key not set")

	// ErrUnsupported indicates an unknown provider name.
	ErrUnsupported = errors.New("provider: unsupported provider")

	// ErrEmptyResponse indicates the model returned no usable text.
	ErrEmptyResponse = errors.New("provider: empty response")
)
