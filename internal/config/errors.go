// Package config persists the user-level configuration: AI provider, model,
// API keys and enabled tools. Values are read from a JSON file in the user's
// configuration directory; API keys in the environment take precedence over
// keys stored in the file.
package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfig   = errors.New("config: invalid configuration")
	ErrInvalidProvider = errors.New("config: invalid ai_provider")
	ErrInvalidTool     = errors.New("config: invalid enabled_tools entry")
	ErrMalformedFile   = errors.New("config: malformed configuration file")
	ErrUnknownKey      = errors.New("config: unknown key")
	ErrNoConfigDir     = errors.New("config: cannot determine configuration directory")
)

// FieldError reports one invalid configuration field.
type FieldError struct {
	Field  string
	Reason string
	Value  string
	Err    error
}

func (e FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
	}
	return e.Field + ": " + e.Reason
}

func (e FieldError) Unwrap() error { return e.Err }

// ValidationErrors collects every FieldError found in one configuration.
// It matches ErrInvalidConfig and each field's sentinel under errors.Is.
type ValidationErrors struct {
	Errors []FieldError
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors)+1)
	errs = append(errs, ErrInvalidConfig)
	for _, fe := range e.Errors {
		errs = append(errs, fe)
	}
	return errs
}
