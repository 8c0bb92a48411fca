// Package rules composes the shared rules directory from a detected project
// profile. Documents are rendered from embedded fragments; the main project
// rules document can instead be drafted by a language model, falling back to
// the template whenever the model call fails.
package rules

import "errors"

// ErrNilProfile is returned when Compose is called without a profile.
var ErrNilProfile = errors.New("rules: project profile is nil")
