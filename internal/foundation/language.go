package foundation

import (
	"fmt"
	"strings"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// Commands lists the conventional shell commands for a language toolchain.
// Empty entries are omitted from rendered documents.
type Commands struct {
	Install string `json:"install,omitempty"`
	Test    string `json:"test,omitempty"`
	Build   string `json:"build,omitempty"`
	Lint    string `json:"lint,omitempty"`
}

// LanguageInfo is one entry of the language catalog.
type LanguageInfo struct {
	ID   models.LanguageTag `json:"id"`
	Name string             `json:"name"`

	// Extensions are the source file extensions, lowercase with leading dot.
	Extensions []string `json:"extensions"`

	// Glob is the brace pattern used in Cursor frontmatter, e.g. "{ts,tsx}".
	Glob string `json:"glob"`

	// Markers are root files whose presence signals the language.
	Markers []string `json:"markers"`

	// EnryNames are the linguist names go-enry reports for the language.
	EnryNames []string `json:"-"`

	Commands Commands `json:"commands"`
}

// LanguageRegistry provides lookups over the language catalog.
type LanguageRegistry struct {
	ordered []LanguageInfo
	byID    map[models.LanguageTag]int
	byExt   map[string]int
	byEnry  map[string]int
}

// DefaultRegistry is the shared language catalog.
var DefaultRegistry = NewLanguageRegistry()

// NewLanguageRegistry builds a registry from the built-in catalog.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		ordered: languageCatalog(),
		byID:    make(map[models.LanguageTag]int),
		byExt:   make(map[string]int),
		byEnry:  make(map[string]int),
	}
	for i, info := range r.ordered {
		r.byID[info.ID] = i
		for _, ext := range info.Extensions {
			r.byExt[ext] = i
		}
		for _, name := range info.EnryNames {
			r.byEnry[name] = i
		}
	}
	return r
}

// Get returns the catalog entry for id.
func (r *LanguageRegistry) Get(id models.LanguageTag) (*LanguageInfo, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, &LanguageNotFoundError{Key: string(id)}
	}
	info := r.ordered[i]
	return &info, nil
}

// All returns every language in detection priority order.
func (r *LanguageRegistry) All() []LanguageInfo {
	out := make([]LanguageInfo, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByExtension returns the language owning a file extension such as ".tsx".
func (r *LanguageRegistry) ByExtension(ext string) (*LanguageInfo, error) {
	switch {
	case ext == "":
		return nil, fmt.Errorf("%w: empty extension", ErrUnsupportedLanguage)
	case !strings.HasPrefix(ext, "."):
		return nil, fmt.Errorf("%w: extension must start with dot: %q", ErrUnsupportedLanguage, ext)
	case ext == ".":
		return nil, fmt.Errorf("%w: extension cannot be just a dot", ErrUnsupportedLanguage)
	}
	i, ok := r.byExt[strings.ToLower(ext)]
	if !ok {
		return nil, &LanguageNotFoundError{Key: ext}
	}
	info := r.ordered[i]
	return &info, nil
}

// ByEnryName maps a go-enry language name ("C++", "TSX") to a catalog entry.
func (r *LanguageRegistry) ByEnryName(name string) (*LanguageInfo, error) {
	i, ok := r.byEnry[name]
	if !ok {
		return nil, &LanguageNotFoundError{Key: name}
	}
	info := r.ordered[i]
	return &info, nil
}

// DisplayName returns the human name for id, or the tag itself when unknown.
func (r *LanguageRegistry) DisplayName(id models.LanguageTag) string {
	if info, err := r.Get(id); err == nil {
		return info.Name
	}
	return string(id)
}

// languageCatalog is ordered by detection priority.
func languageCatalog() []LanguageInfo {
	return []LanguageInfo{
		{
			ID:         models.LangPython,
			Name:       "Python",
			Extensions: []string{".py", ".pyi"},
			Glob:       "py",
			Markers:    []string{"requirements.txt", "pyproject.toml", "setup.py", "Pipfile", "poetry.lock"},
			EnryNames:  []string{"Python"},
			Commands: Commands{
				Install: "pip install -r requirements.txt",
				Test:    "pytest",
				Lint:    "ruff check .",
			},
		},
		{
			ID:         models.LangTypeScript,
			Name:       "TypeScript",
			Extensions: []string{".ts", ".tsx", ".mts", ".cts"},
			Glob:       "{ts,tsx}",
			Markers:    []string{"tsconfig.json"},
			EnryNames:  []string{"TypeScript", "TSX"},
			Commands: Commands{
				Install: "npm install",
				Test:    "npm test",
				Build:   "npm run build",
				Lint:    "npm run lint",
			},
		},
		{
			ID:         models.LangJavaScript,
			Name:       "JavaScript",
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
			Glob:       "{js,jsx}",
			Markers:    []string{"package.json"},
			EnryNames:  []string{"JavaScript"},
			Commands: Commands{
				Install: "npm install",
				Test:    "npm test",
				Build:   "npm run build",
				Lint:    "npm run lint",
			},
		},
		{
			ID:         models.LangRust,
			Name:       "Rust",
			Extensions: []string{".rs"},
			Glob:       "rs",
			Markers:    []string{"Cargo.toml"},
			EnryNames:  []string{"Rust"},
			Commands: Commands{
				Build: "cargo build",
				Test:  "cargo test",
				Lint:  "cargo clippy -- -D warnings",
			},
		},
		{
			ID:         models.LangGo,
			Name:       "Go",
			Extensions: []string{".go"},
			Glob:       "go",
			Markers:    []string{"go.mod"},
			EnryNames:  []string{"Go"},
			Commands: Commands{
				Install: "go mod download",
				Test:    "go test ./...",
				Build:   "go build ./...",
				Lint:    "go vet ./...",
			},
		},
		{
			ID:         models.LangJava,
			Name:       "Java",
			Extensions: []string{".java"},
			Glob:       "java",
			Markers:    []string{"pom.xml", "build.gradle", "build.gradle.kts"},
			EnryNames:  []string{"Java"},
			Commands: Commands{
				Build: "mvn package",
				Test:  "mvn test",
			},
		},
		{
			ID:         models.LangCPP,
			Name:       "C++",
			Extensions: []string{".cpp", ".hpp", ".cc", ".cxx", ".hh", ".h"},
			Glob:       "{cpp,hpp,cc,h}",
			Markers:    []string{"CMakeLists.txt", "Makefile"},
			EnryNames:  []string{"C++", "C"},
			Commands: Commands{
				Build: "cmake -S . -B build && cmake --build build",
				Test:  "ctest --test-dir build",
			},
		},
	}
}
