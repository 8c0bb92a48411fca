package foundation

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage indicates a language tag outside the catalog.
var ErrUnsupportedLanguage = errors.New("foundation: unsupported language")

// ErrUnsupportedFramework indicates a framework tag outside the catalog.
var ErrUnsupportedFramework = errors.New("foundation: unsupported framework")

// LanguageNotFoundError reports a lookup key that matched no catalog entry.
type LanguageNotFoundError struct {
	Key string
}

func (e *LanguageNotFoundError) Error() string {
	return fmt.Sprintf("foundation: language not found for %q", e.Key)
}

// Unwrap lets errors.Is match ErrUnsupportedLanguage.
func (e *LanguageNotFoundError) Unwrap() error {
	return ErrUnsupportedLanguage
}
