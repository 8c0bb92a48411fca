// Package project classifies a directory tree into a ProjectProfile: the
// languages and frameworks it uses and, for workspaces, one profile per
// sub-package. Detection reads marker files only and never executes project
// code.
package project

import "errors"

// Sentinel errors for the project package.
var (
	// ErrInvalidRoot indicates the given project root path is invalid or inaccessible.
	ErrInvalidRoot = errors.New("project: invalid project root path")

	// ErrNotGitRepository indicates no git worktree encloses the start directory.
	ErrNotGitRepository = errors.New("project: not inside a git worktree")
)
