package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// FindProjectRoot returns the top directory of the git worktree enclosing
// start. It returns ErrNotGitRepository when start is not inside a worktree
// or the repository is bare.
func FindProjectRoot(start string) (string, error) {
	absDir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNotGitRepository, absDir)
		}
		return "", fmt.Errorf("open git repository at %s: %w", absDir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotGitRepository, err)
	}
	return wt.Filesystem.Root(), nil
}

// ResolveRoot picks the directory rule generation operates on: explicit when
// given, otherwise the enclosing git worktree, otherwise the current
// directory. The result is absolute and validated as a directory.
func ResolveRoot(explicit string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("resolve absolute path: %w", err)
		}
		if err := validateRoot(abs); err != nil {
			return "", err
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	if root, err := FindProjectRoot(cwd); err == nil {
		return root, nil
	}
	return filepath.Abs(cwd)
}
