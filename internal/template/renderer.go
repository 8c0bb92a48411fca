package template

import (
	"bytes"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Title turns a tag such as "node-express" or "clean-code" into "Node Express".
func Title(tag string) string {
	return titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(tag))
}

var templateFuncMap = template.FuncMap{
	"title":     Title,
	"join":      strings.Join,
	"trim":      strings.TrimSpace,
	"posixPath": func(s string) string { return strings.ReplaceAll(s, "\\", "/") },
	// yesNo renders a boolean the way the project context block reads it.
	"yesNo": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
}

// unexpandedTokenPattern detects a leftover {{.Field}} reference. Fragment
// bodies legitimately contain ${VAR} and {{ mustache }} examples, so only
// the dotted form is flagged.
var unexpandedTokenPattern = regexp.MustCompile(`\{\{\.[A-Za-z_][A-Za-z0-9_.]*\}\}`)

// Renderer executes the named template with data. Implementations fail on
// missing keys (ErrMissingTemplateKey) and on field references left in the
// output (ErrUnexpandedToken).
type Renderer interface {
	Render(templateName string, data any) ([]byte, error)
}

// renderer parses each template once and keeps it for later calls.
type renderer struct {
	fsys   fs.FS
	mu     sync.Mutex
	parsed map[string]*template.Template
}

// NewRenderer creates a Renderer reading templates from fsys.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys, parsed: make(map[string]*template.Template)}
}

func (r *renderer) lookup(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.parsed[name]; ok {
		return t, nil
	}
	src, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	t, err := template.New(name).Funcs(templateFuncMap).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", name, err)
	}
	r.parsed[name] = t
	return t, nil
}

func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	t, err := r.lookup(templateName)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}
	out := buf.Bytes()
	if tok := unexpandedTokenPattern.Find(out); tok != nil {
		return nil, fmt.Errorf("%w: found %q", ErrUnexpandedToken, tok)
	}
	return out, nil
}
