package foundation

import (
	"errors"
	"testing"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

func TestFrameworkCatalogCoversAllTags(t *testing.T) {
	t.Parallel()

	r := NewFrameworkRegistry()
	all := r.All()
	if len(all) != len(models.AllFrameworks()) {
		t.Fatalf("All() returned %d, want %d", len(all), len(models.AllFrameworks()))
	}
	for _, tag := range models.AllFrameworks() {
		info, err := r.Get(tag)
		if err != nil {
			t.Errorf("Get(%q) error: %v", tag, err)
			continue
		}
		if info.Name == "" || len(info.Keywords) == 0 || len(info.Languages) == 0 {
			t.Errorf("framework %q is incomplete: %+v", tag, info)
		}
	}
}

func TestFrameworkForLanguage(t *testing.T) {
	t.Parallel()

	r := NewFrameworkRegistry()

	tests := []struct {
		lang models.LanguageTag
		want []models.FrameworkTag
	}{
		{lang: models.LangPython, want: []models.FrameworkTag{models.FrameworkFastAPI, models.FrameworkDjango, models.FrameworkFlask}},
		{lang: models.LangRust, want: []models.FrameworkTag{models.FrameworkActix, models.FrameworkAxum, models.FrameworkRocket}},
		{lang: models.LangJava, want: []models.FrameworkTag{models.FrameworkSpringBoot}},
		{lang: models.LangCPP, want: nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			t.Parallel()
			got := r.ForLanguage(tt.lang)
			if len(got) != len(tt.want) {
				t.Fatalf("ForLanguage(%s) returned %d, want %d", tt.lang, len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("ForLanguage(%s)[%d] = %q, want %q", tt.lang, i, got[i].ID, tt.want[i])
				}
			}
		})
	}

	// TypeScript and JavaScript share one framework list.
	ts := r.ForLanguage(models.LangTypeScript)
	js := r.ForLanguage(models.LangJavaScript)
	if len(ts) == 0 || len(ts) != len(js) {
		t.Errorf("ts/js framework lists differ: %d vs %d", len(ts), len(js))
	}
}

func TestFrameworkGetUnknown(t *testing.T) {
	t.Parallel()

	_, err := NewFrameworkRegistry().Get("rails")
	if !errors.Is(err, ErrUnsupportedFramework) {
		t.Errorf("Get(rails) error = %v, want ErrUnsupportedFramework", err)
	}
}
