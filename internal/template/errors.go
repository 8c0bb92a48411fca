// Package template owns the embedded rule fragments and entrypoint
// templates, renders them in strict mode and writes the results beneath a
// project root without letting any path escape it.
package template

import "errors"

// Sentinel errors for the template package.
var (
	// ErrTemplateNotFound indicates the named template or fragment is not embedded.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrMissingTemplateKey indicates the template referenced data that was not supplied.
	ErrMissingTemplateKey = errors.New("template: missing key")

	// ErrUnexpandedToken indicates a template field reference survived rendering.
	ErrUnexpandedToken = errors.New("template: unexpanded token")

	// ErrPathTraversal indicates an output path escapes the project root.
	ErrPathTraversal = errors.New("template: path traversal")

	// ErrInvalidFrontmatter indicates a fragment's YAML frontmatter could not be parsed.
	ErrInvalidFrontmatter = errors.New("template: invalid frontmatter")
)
