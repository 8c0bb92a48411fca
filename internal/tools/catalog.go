package tools

import (
	"slices"

	"github.com/ai-rules/ai-rules-generator/internal/rules"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// ReferenceStyle is how an entrypoint refers to the shared rules directory.
type ReferenceStyle string

const (
	// StylePointer lists the shared files as Markdown references.
	StylePointer ReferenceStyle = "pointer"

	// StyleImport uses @path lines that the tool expands inline.
	StyleImport ReferenceStyle = "import"

	// StyleMDC is a Cursor rule with YAML frontmatter.
	StyleMDC ReferenceStyle = "mdc"
)

// OutputFile is one entrypoint, relative to the directory being configured.
type OutputFile struct {
	Path  string
	Style ReferenceStyle
	Notes []string
}

// ToolConfig describes where a tool looks for its rules.
type ToolConfig struct {
	ID      models.ToolID
	Name    string
	Outputs []OutputFile

	// LanguageRuleDir, when set, receives one glob-scoped MDC rule per
	// detected language, named <language>.mdc.
	LanguageRuleDir string
}

// Paths returns the output paths in table order.
func (t ToolConfig) Paths() []string {
	paths := make([]string, 0, len(t.Outputs))
	for _, o := range t.Outputs {
		paths = append(paths, o.Path)
	}
	return paths
}

var catalog = []ToolConfig{
	{
		ID:   models.ToolCursor,
		Name: "Cursor",
		Outputs: []OutputFile{
			{
				Path:  ".cursorrules",
				Style: StylePointer,
				Notes: []string{"Cursor also reads from `.cursor/rules/*.mdc` files, which reference the same shared rules."},
			},
			{Path: ".cursor/rules/main.mdc", Style: StyleMDC},
		},
		LanguageRuleDir: ".cursor/rules",
	},
	{
		ID:   models.ToolClaudeCode,
		Name: "Claude Code",
		Outputs: []OutputFile{
			{Path: "CLAUDE.md", Style: StyleImport},
			{
				Path:  ".claude/rules/README.md",
				Style: StylePointer,
				Notes: []string{"Claude Code loads `CLAUDE.md` automatically; this directory holds tool-specific additions only."},
			},
		},
	},
	{
		ID:   models.ToolWindsurf,
		Name: "Windsurf",
		Outputs: []OutputFile{
			{
				Path:  ".windsurfrules",
				Style: StylePointer,
				Notes: []string{"Windsurf also supports reading from `.cursor/rules/*.mdc` files if available."},
			},
		},
	},
	{
		ID:   models.ToolCopilot,
		Name: "GitHub Copilot",
		Outputs: []OutputFile{
			{Path: ".github/copilot-instructions.md", Style: StylePointer},
			{Path: ".copilot/instructions.md", Style: StylePointer},
		},
	},
	{
		ID:   models.ToolWarp,
		Name: "Warp",
		Outputs: []OutputFile{
			{Path: ".warp/rules.md", Style: StylePointer},
		},
	},
	{
		ID:   models.ToolJanie,
		Name: "Janie",
		Outputs: []OutputFile{
			{Path: ".janie/rules.md", Style: StylePointer},
		},
	},
}

// Catalog returns every supported tool in display order.
func Catalog() []ToolConfig {
	out := make([]ToolConfig, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the configuration for id.
func Lookup(id models.ToolID) (ToolConfig, bool) {
	i := slices.IndexFunc(catalog, func(t ToolConfig) bool { return t.ID == id })
	if i < 0 {
		return ToolConfig{}, false
	}
	return catalog[i], true
}

// DisplayName returns the tool's human name, or the id when unknown.
func DisplayName(id models.ToolID) string {
	if t, ok := Lookup(id); ok {
		return t.Name
	}
	return string(id)
}

// Usage describes the enabled tools for the shared rules index.
func Usage(ids []models.ToolID) []rules.ToolUsage {
	var out []rules.ToolUsage
	for _, t := range catalog {
		if slices.Contains(ids, t.ID) {
			out = append(out, rules.ToolUsage{Name: t.Name, Paths: t.Paths()})
		}
	}
	return out
}
