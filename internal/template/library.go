package template

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// Template names rendered by the composer and the tool adapter.
const (
	ContextTemplate      = "project/context.md.tmpl"
	ProjectRulesTemplate = "project/project-rules.md.tmpl"
	IndexTemplate        = "project/index.md.tmpl"
	CategoryTemplate     = "project/category.md.tmpl"
	PromptTemplate       = "prompt/project-rules.tmpl"

	EntrypointPointerTemplate     = "entrypoints/pointer.md.tmpl"
	EntrypointImportTemplate      = "entrypoints/import.md.tmpl"
	EntrypointMDCTemplate         = "entrypoints/mdc.md.tmpl"
	EntrypointLanguageMDCTemplate = "entrypoints/mdc-language.md.tmpl"
)

const (
	languageDir    = "rules/languages"
	frameworkDir   = "rules/frameworks"
	universalDir   = "rules/universal"
	guidelinesFile = "rules/guidelines.md"
)

// Fragment is a prewritten rule body with its frontmatter and heading removed.
type Fragment struct {
	Name        string
	Title       string
	Description string
	Body        string
}

// Library reads rule fragments from a template tree.
type Library struct {
	fsys fs.FS
}

// NewLibrary creates a Library backed by the given filesystem.
// In production the fs.FS comes from EmbeddedTemplates; in tests use
// testing/fstest.MapFS.
func NewLibrary(fsys fs.FS) *Library {
	return &Library{fsys: fsys}
}

// FS returns the underlying template tree.
func (l *Library) FS() fs.FS {
	return l.fsys
}

// Language returns the fragment for a language tag.
func (l *Library) Language(tag models.LanguageTag) (Fragment, error) {
	return l.fragment(languageDir, string(tag))
}

// Framework returns the fragment for a framework tag.
func (l *Library) Framework(tag models.FrameworkTag) (Fragment, error) {
	return l.fragment(frameworkDir, string(tag))
}

// Universal returns the fragment for a universal rule such as "gitflow".
func (l *Library) Universal(name string) (Fragment, error) {
	return l.fragment(universalDir, name)
}

// Guidelines returns the general coding principles shared by the project
// rules document and the AI prompt, without their heading.
func (l *Library) Guidelines() (string, error) {
	data, err := fs.ReadFile(l.fsys, guidelinesFile)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, guidelinesFile)
	}
	_, body := ExtractRuleContent(string(data))
	return body, nil
}

// UniversalNames lists the universal fragments available, sorted.
func (l *Library) UniversalNames() []string {
	entries, err := fs.ReadDir(l.fsys, universalDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// ExtractTemplate returns the raw content of a single template by name.
func (l *Library) ExtractTemplate(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return data, nil
}

// ListTemplates returns sorted relative paths of all files in the tree.
func (l *Library) ListTemplates() []string {
	var list []string
	_ = fs.WalkDir(l.fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors during listing
		}
		if p == "." || entry.IsDir() {
			return nil
		}
		list = append(list, p)
		return nil
	})
	sort.Strings(list)
	return list
}

func (l *Library) fragment(dir, name string) (Fragment, error) {
	p := path.Join(dir, name+".md")
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, p)
	}

	fm, _, err := SplitFrontmatter(string(data))
	if err != nil {
		return Fragment{}, fmt.Errorf("fragment %s: %w", p, err)
	}
	title, body := ExtractRuleContent(string(data))
	if title == "" {
		title = Title(name)
	}
	return Fragment{
		Name:        name,
		Title:       title,
		Description: fm.Description,
		Body:        body,
	}, nil
}
