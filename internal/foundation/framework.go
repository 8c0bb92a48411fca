package foundation

import (
	"fmt"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// FrameworkInfo is one entry of the framework catalog.
type FrameworkInfo struct {
	ID   models.FrameworkTag `json:"id"`
	Name string              `json:"name"`

	// Languages are the languages whose manifests are scanned for this framework.
	Languages []models.LanguageTag `json:"languages"`

	// Keywords are dependency names (package.json) or lowercase substrings
	// (requirements.txt, go.mod, Cargo.toml, pom.xml) that signal the framework.
	Keywords []string `json:"keywords"`
}

// FrameworkRegistry provides lookups over the framework catalog.
type FrameworkRegistry struct {
	ordered []FrameworkInfo
	byID    map[models.FrameworkTag]int
}

// DefaultFrameworks is the shared framework catalog.
var DefaultFrameworks = NewFrameworkRegistry()

// NewFrameworkRegistry builds a registry from the built-in catalog.
func NewFrameworkRegistry() *FrameworkRegistry {
	r := &FrameworkRegistry{
		ordered: frameworkCatalog(),
		byID:    make(map[models.FrameworkTag]int),
	}
	for i, info := range r.ordered {
		r.byID[info.ID] = i
	}
	return r
}

// Get returns the catalog entry for id.
func (r *FrameworkRegistry) Get(id models.FrameworkTag) (*FrameworkInfo, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFramework, id)
	}
	info := r.ordered[i]
	return &info, nil
}

// All returns the whole catalog in canonical order.
func (r *FrameworkRegistry) All() []FrameworkInfo {
	out := make([]FrameworkInfo, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ForLanguage returns the frameworks scanned for lang, in canonical order.
func (r *FrameworkRegistry) ForLanguage(lang models.LanguageTag) []FrameworkInfo {
	var out []FrameworkInfo
	for _, info := range r.ordered {
		for _, l := range info.Languages {
			if l == lang {
				out = append(out, info)
				break
			}
		}
	}
	return out
}

// DisplayName returns the human name for id, or the tag itself when unknown.
func (r *FrameworkRegistry) DisplayName(id models.FrameworkTag) string {
	if info, err := r.Get(id); err == nil {
		return info.Name
	}
	return string(id)
}

var (
	pythonOnly = []models.LanguageTag{models.LangPython}
	jsFamily   = []models.LanguageTag{models.LangTypeScript, models.LangJavaScript}
	goOnly     = []models.LanguageTag{models.LangGo}
	rustOnly   = []models.LanguageTag{models.LangRust}
	javaOnly   = []models.LanguageTag{models.LangJava}
)

func frameworkCatalog() []FrameworkInfo {
	return []FrameworkInfo{
		{ID: models.FrameworkFastAPI, Name: "FastAPI", Languages: pythonOnly, Keywords: []string{"fastapi"}},
		{ID: models.FrameworkDjango, Name: "Django", Languages: pythonOnly, Keywords: []string{"django"}},
		{ID: models.FrameworkFlask, Name: "Flask", Languages: pythonOnly, Keywords: []string{"flask"}},

		{ID: models.FrameworkNextJS, Name: "Next.js", Languages: jsFamily, Keywords: []string{"next"}},
		{ID: models.FrameworkReact, Name: "React", Languages: jsFamily, Keywords: []string{"react"}},
		{ID: models.FrameworkVue, Name: "Vue", Languages: jsFamily, Keywords: []string{"vue"}},
		{ID: models.FrameworkSvelte, Name: "Svelte", Languages: jsFamily, Keywords: []string{"svelte", "@sveltejs/kit"}},
		{ID: models.FrameworkAngular, Name: "Angular", Languages: jsFamily, Keywords: []string{"@angular/core"}},
		{ID: models.FrameworkNestJS, Name: "NestJS", Languages: jsFamily, Keywords: []string{"@nestjs/core"}},
		{ID: models.FrameworkNodeExpress, Name: "Express", Languages: jsFamily, Keywords: []string{"express"}},
		{ID: models.FrameworkTailwind, Name: "Tailwind CSS", Languages: jsFamily, Keywords: []string{"tailwindcss"}},

		{ID: models.FrameworkGin, Name: "Gin", Languages: goOnly, Keywords: []string{"github.com/gin-gonic/gin"}},
		{ID: models.FrameworkEcho, Name: "Echo", Languages: goOnly, Keywords: []string{"github.com/labstack/echo"}},
		{ID: models.FrameworkFiber, Name: "Fiber", Languages: goOnly, Keywords: []string{"github.com/gofiber/fiber"}},
		{ID: models.FrameworkChi, Name: "chi", Languages: goOnly, Keywords: []string{"github.com/go-chi/chi"}},

		{ID: models.FrameworkActix, Name: "Actix Web", Languages: rustOnly, Keywords: []string{"actix-web"}},
		{ID: models.FrameworkAxum, Name: "Axum", Languages: rustOnly, Keywords: []string{"axum"}},
		{ID: models.FrameworkRocket, Name: "Rocket", Languages: rustOnly, Keywords: []string{"rocket"}},

		{ID: models.FrameworkSpringBoot, Name: "Spring Boot", Languages: javaOnly, Keywords: []string{"spring-boot"}},
	}
}
