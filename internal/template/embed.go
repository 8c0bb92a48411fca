package template

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var embedded embed.FS

// EmbeddedTemplates returns the built-in template tree rooted at templates/.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		// The directory is embedded at build time; fs.Sub only fails on an
		// invalid path literal.
		panic(err)
	}
	return sub
}
