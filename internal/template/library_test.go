package template

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

func testLibraryFS() fstest.MapFS {
	return fstest.MapFS{
		"rules/languages/go.md": &fstest.MapFile{
			Data: []byte("---\ndescription: Go coding standards\n---\n# Go\n\n- gofmt\n"),
		},
		"rules/frameworks/gin.md": &fstest.MapFile{
			Data: []byte("# Gin\n\n- Bind input\n"),
		},
		"rules/universal/gitflow.md": &fstest.MapFile{
			Data: []byte("---\ndescription: Git workflow\nalwaysApply: false\n---\n# Gitflow\n\n- main is releasable\n"),
		},
		"rules/universal/clean-code.md": &fstest.MapFile{
			Data: []byte("- Names matter\n"),
		},
		"rules/guidelines.md": &fstest.MapFile{
			Data: []byte("# General Coding Principles\n\n### Testing\n- Write tests\n"),
		},
	}
}

func TestLibraryFragments(t *testing.T) {
	lib := NewLibrary(testLibraryFS())

	lang, err := lib.Language(models.LangGo)
	if err != nil {
		t.Fatalf("Language(go) error: %v", err)
	}
	if lang.Title != "Go" || lang.Description != "Go coding standards" || lang.Body != "- gofmt" {
		t.Errorf("Language(go) = %+v", lang)
	}

	fw, err := lib.Framework(models.FrameworkGin)
	if err != nil {
		t.Fatalf("Framework(gin) error: %v", err)
	}
	if fw.Title != "Gin" || fw.Body != "- Bind input" {
		t.Errorf("Framework(gin) = %+v", fw)
	}

	// A fragment without a heading gets a title from its name.
	cc, err := lib.Universal("clean-code")
	if err != nil {
		t.Fatalf("Universal(clean-code) error: %v", err)
	}
	if cc.Title != "Clean Code" {
		t.Errorf("Title = %q, want Clean Code", cc.Title)
	}

	_, err = lib.Framework(models.FrameworkDjango)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Framework(django) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestLibraryGuidelines(t *testing.T) {
	got, err := NewLibrary(testLibraryFS()).Guidelines()
	if err != nil {
		t.Fatalf("Guidelines error: %v", err)
	}
	if strings.Contains(got, "# General Coding Principles") {
		t.Error("heading should be stripped")
	}
	if !strings.HasPrefix(got, "### Testing") {
		t.Errorf("Guidelines = %q", got)
	}

	if _, err := NewLibrary(fstest.MapFS{}).Guidelines(); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("missing guidelines error = %v", err)
	}
}

func TestLibraryListing(t *testing.T) {
	lib := NewLibrary(testLibraryFS())

	if got := lib.UniversalNames(); !slices.Equal(got, []string{"clean-code", "gitflow"}) {
		t.Errorf("UniversalNames() = %v", got)
	}

	list := lib.ListTemplates()
	if len(list) != 5 || !slices.IsSorted(list) {
		t.Errorf("ListTemplates() = %v", list)
	}

	if _, err := lib.ExtractTemplate("missing.md"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("ExtractTemplate(missing) error = %v", err)
	}
}

// Every catalog tag ships a fragment in the embedded tree.
func TestEmbeddedFragmentsComplete(t *testing.T) {
	lib := NewLibrary(EmbeddedTemplates())

	for _, lang := range models.AllLanguages() {
		frag, err := lib.Language(lang)
		if err != nil {
			t.Errorf("Language(%s) error: %v", lang, err)
			continue
		}
		if frag.Body == "" || frag.Description == "" {
			t.Errorf("Language(%s) fragment incomplete", lang)
		}
	}
	for _, fw := range models.AllFrameworks() {
		frag, err := lib.Framework(fw)
		if err != nil {
			t.Errorf("Framework(%s) error: %v", fw, err)
			continue
		}
		if frag.Body == "" {
			t.Errorf("Framework(%s) fragment has empty body", fw)
		}
	}
	for _, name := range []string{"codequality", "clean-code", "database", "gitflow", "security"} {
		if _, err := lib.Universal(name); err != nil {
			t.Errorf("Universal(%s) error: %v", name, err)
		}
	}
	if _, err := lib.Guidelines(); err != nil {
		t.Errorf("Guidelines error: %v", err)
	}
}
