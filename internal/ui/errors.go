package ui

import "errors"

// ErrCancelled is returned when the user aborts a prompt with Ctrl+C or Esc.
var ErrCancelled = errors.New("ui: cancelled by user")
