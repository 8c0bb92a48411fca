package models

import (
	"slices"
	"strings"
)

// LanguageTag identifies a programming language from the fixed catalog.
type LanguageTag string

// Supported language tags, listed in detection priority order.
const (
	LangPython     LanguageTag = "python"
	LangTypeScript LanguageTag = "typescript"
	LangJavaScript LanguageTag = "javascript"
	LangRust       LanguageTag = "rust"
	LangGo         LanguageTag = "go"
	LangJava       LanguageTag = "java"
	LangCPP        LanguageTag = "cpp"
)

// AllLanguages returns every language tag in detection priority order.
func AllLanguages() []LanguageTag {
	return []LanguageTag{LangPython, LangTypeScript, LangJavaScript, LangRust, LangGo, LangJava, LangCPP}
}

// IsValid reports whether the tag belongs to the catalog.
func (l LanguageTag) IsValid() bool {
	return slices.Contains(AllLanguages(), l)
}

// String returns the tag value.
func (l LanguageTag) String() string { return string(l) }

// ParseLanguage normalizes user input ("TS", " Python ") into a catalog tag.
// Short aliases js, ts, py, rs, golang and c++ are accepted.
func ParseLanguage(s string) (LanguageTag, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "js":
		v = string(LangJavaScript)
	case "ts":
		v = string(LangTypeScript)
	case "py":
		v = string(LangPython)
	case "rs":
		v = string(LangRust)
	case "golang":
		v = string(LangGo)
	case "c++":
		v = string(LangCPP)
	}
	tag := LanguageTag(v)
	return tag, tag.IsValid()
}

// FrameworkTag identifies a framework or library from the fixed catalog.
type FrameworkTag string

// Supported framework tags.
const (
	FrameworkFastAPI     FrameworkTag = "fastapi"
	FrameworkDjango      FrameworkTag = "django"
	FrameworkFlask       FrameworkTag = "flask"
	FrameworkNextJS      FrameworkTag = "nextjs"
	FrameworkReact       FrameworkTag = "react"
	FrameworkVue         FrameworkTag = "vue"
	FrameworkSvelte      FrameworkTag = "svelte"
	FrameworkAngular     FrameworkTag = "angular"
	FrameworkNestJS      FrameworkTag = "nestjs"
	FrameworkNodeExpress FrameworkTag = "node-express"
	FrameworkTailwind    FrameworkTag = "tailwind"
	FrameworkGin         FrameworkTag = "gin"
	FrameworkEcho        FrameworkTag = "echo"
	FrameworkFiber       FrameworkTag = "fiber"
	FrameworkChi         FrameworkTag = "chi"
	FrameworkActix       FrameworkTag = "actix"
	FrameworkAxum        FrameworkTag = "axum"
	FrameworkRocket      FrameworkTag = "rocket"
	FrameworkSpringBoot  FrameworkTag = "springboot"
)

// AllFrameworks returns every framework tag in catalog order.
func AllFrameworks() []FrameworkTag {
	return []FrameworkTag{
		FrameworkFastAPI, FrameworkDjango, FrameworkFlask,
		FrameworkNextJS, FrameworkReact, FrameworkVue, FrameworkSvelte,
		FrameworkAngular, FrameworkNestJS, FrameworkNodeExpress, FrameworkTailwind,
		FrameworkGin, FrameworkEcho, FrameworkFiber, FrameworkChi,
		FrameworkActix, FrameworkAxum, FrameworkRocket,
		FrameworkSpringBoot,
	}
}

// IsValid reports whether the tag belongs to the catalog.
func (f FrameworkTag) IsValid() bool {
	return slices.Contains(AllFrameworks(), f)
}

// String returns the tag value.
func (f FrameworkTag) String() string { return string(f) }

// ParseFramework normalizes user input into a catalog tag.
// The aliases next, next.js, express and sveltekit are accepted.
func ParseFramework(s string) (FrameworkTag, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "next", "next.js":
		v = string(FrameworkNextJS)
	case "express":
		v = string(FrameworkNodeExpress)
	case "sveltekit":
		v = string(FrameworkSvelte)
	case "spring-boot", "spring":
		v = string(FrameworkSpringBoot)
	}
	tag := FrameworkTag(v)
	return tag, tag.IsValid()
}

// ProjectProfile is the detector's classification of a directory tree.
// Languages and Frameworks behave as sets kept in catalog order, so two
// profiles with the same tags compare equal regardless of discovery order.
type ProjectProfile struct {
	RootPath    string           `json:"root_path"`
	Name        string           `json:"name"`
	RelPath     string           `json:"rel_path,omitempty"`
	Languages   []LanguageTag    `json:"detected_languages"`
	Frameworks  []FrameworkTag   `json:"detected_frameworks"`
	IsMonorepo  bool             `json:"is_monorepo"`
	SubPackages []ProjectProfile `json:"sub_packages,omitempty"`
}

// AddLanguage inserts a language tag, keeping catalog order and set semantics.
// Unknown tags are ignored.
func (p *ProjectProfile) AddLanguage(tag LanguageTag) {
	if !tag.IsValid() || slices.Contains(p.Languages, tag) {
		return
	}
	p.Languages = append(p.Languages, tag)
	order := AllLanguages()
	slices.SortFunc(p.Languages, func(a, b LanguageTag) int {
		return slices.Index(order, a) - slices.Index(order, b)
	})
}

// AddFramework inserts a framework tag, keeping catalog order and set semantics.
// Unknown tags are ignored.
func (p *ProjectProfile) AddFramework(tag FrameworkTag) {
	if !tag.IsValid() || slices.Contains(p.Frameworks, tag) {
		return
	}
	p.Frameworks = append(p.Frameworks, tag)
	order := AllFrameworks()
	slices.SortFunc(p.Frameworks, func(a, b FrameworkTag) int {
		return slices.Index(order, a) - slices.Index(order, b)
	})
}

// HasLanguage reports whether the tag was detected.
func (p *ProjectProfile) HasLanguage(tag LanguageTag) bool {
	return slices.Contains(p.Languages, tag)
}

// HasFramework reports whether the tag was detected.
func (p *ProjectProfile) HasFramework(tag FrameworkTag) bool {
	return slices.Contains(p.Frameworks, tag)
}

// PrimaryLanguage returns the highest-priority detected language,
// or the empty tag when nothing was detected.
func (p *ProjectProfile) PrimaryLanguage() LanguageTag {
	if len(p.Languages) == 0 {
		return ""
	}
	return p.Languages[0]
}

// IsEmpty reports whether no language or framework was detected.
func (p *ProjectProfile) IsEmpty() bool {
	return len(p.Languages) == 0 && len(p.Frameworks) == 0
}

// SetLanguages replaces the language set.
func (p *ProjectProfile) SetLanguages(tags []LanguageTag) {
	p.Languages = nil
	for _, t := range tags {
		p.AddLanguage(t)
	}
}

// SetFrameworks replaces the framework set.
func (p *ProjectProfile) SetFrameworks(tags []FrameworkTag) {
	p.Frameworks = nil
	for _, t := range tags {
		p.AddFramework(t)
	}
}
