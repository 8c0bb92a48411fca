package rules

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
	"pgregory.net/rapid"
)

func drawProfile(rt *rapid.T) *models.ProjectProfile {
	langs := rapid.SliceOfDistinct(rapid.SampledFrom(models.AllLanguages()), rapid.ID[models.LanguageTag]).Draw(rt, "languages")
	fws := rapid.SliceOfDistinct(rapid.SampledFrom(models.AllFrameworks()), rapid.ID[models.FrameworkTag]).Draw(rt, "frameworks")

	p := &models.ProjectProfile{Name: rapid.StringMatching(`[a-z][a-z0-9-]{0,15}`).Draw(rt, "name")}
	p.SetLanguages(langs)
	p.SetFrameworks(fws)
	return p
}

// TestPropertyTemplateModeIdempotent verifies that composing the same profile
// twice yields byte-identical files.
func TestPropertyTemplateModeIdempotent(t *testing.T) {
	c := NewComposer()
	rapid.Check(t, func(rt *rapid.T) {
		profile := drawProfile(rt)

		first, err := c.Compose(context.Background(), profile, templateConfig(), Options{})
		if err != nil {
			rt.Fatalf("Compose failed: %v", err)
		}
		second, err := c.Compose(context.Background(), profile, templateConfig(), Options{})
		if err != nil {
			rt.Fatalf("second Compose failed: %v", err)
		}

		a, b := first.Files(), second.Files()
		if len(a) != len(b) {
			rt.Fatalf("file count %d != %d", len(a), len(b))
		}
		for i := range a {
			if a[i].Path != b[i].Path || !bytes.Equal(a[i].Content, b[i].Content) {
				rt.Fatalf("file %d differs: %s vs %s", i, a[i].Path, b[i].Path)
			}
		}
	})
}

// TestPropertyEveryLanguageHasDocument verifies that each detected language
// and framework produces exactly one document and the index lists it.
func TestPropertyEveryLanguageHasDocument(t *testing.T) {
	c := NewComposer()
	rapid.Check(t, func(rt *rapid.T) {
		profile := drawProfile(rt)

		plan, err := c.Compose(context.Background(), profile, templateConfig(), Options{})
		if err != nil {
			rt.Fatalf("Compose failed: %v", err)
		}
		root := plan.Root()

		for _, lang := range profile.Languages {
			name := "language-" + string(lang) + ".md"
			if !hasDocument(root, name) {
				rt.Fatalf("missing %s", name)
			}
			if !strings.Contains(root.Index.BodyMarkdown, "`"+name+"`") {
				rt.Fatalf("index does not list %s", name)
			}
		}
		for _, fw := range profile.Frameworks {
			if !hasDocument(root, "framework-"+string(fw)+".md") {
				rt.Fatalf("missing framework-%s.md", fw)
			}
		}
		if root.Documents[0].FileName != "project-rules.md" {
			rt.Fatalf("first document = %s", root.Documents[0].FileName)
		}
	})
}

func hasDocument(u *Unit, name string) bool {
	for _, d := range u.Documents {
		if d.FileName == name {
			return true
		}
	}
	return false
}
