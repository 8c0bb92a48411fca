package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"

	"github.com/ai-rules/ai-rules-generator/internal/defs"
	"github.com/ai-rules/ai-rules-generator/internal/foundation"
	"github.com/ai-rules/ai-rules-generator/internal/rules"
	"github.com/ai-rules/ai-rules-generator/internal/template"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// mdcDescription is the frontmatter description of the main Cursor rule.
const mdcDescription = "Project coding rules and guidelines"

// LanguageRule is a language-scoped entrypoint pointing at the shared
// language document.
type LanguageRule struct {
	Tag      models.LanguageTag
	Name     string
	Glob     string
	Document string
}

// DocumentRef points an entrypoint at one shared rule file.
type DocumentRef struct {
	Path  string
	Title string
}

// Input is everything an entrypoint needs to know about the shared rules.
type Input struct {
	// BaseDir is the directory being configured, relative to the writer's
	// root. Empty for the repository root.
	BaseDir string

	// SharedDir is the shared rules directory relative to BaseDir.
	SharedDir string

	Description     string
	Context         string
	PrimaryLanguage string
	Frameworks      []string

	// Documents lists the category documents, relative to BaseDir. The
	// project rules and index are always referenced and are not listed.
	Documents []DocumentRef

	// Languages has one entry per detected language with a shared document.
	Languages []LanguageRule
}

// InputForUnit builds the entrypoint input for a composed unit.
func InputForUnit(u *rules.Unit) Input {
	in := Input{
		BaseDir:     u.RelPath,
		SharedDir:   defs.AIRulesDir,
		Description: u.Description,
		Context:     u.Context,
	}
	if u.Profile != nil {
		if primary := u.Profile.PrimaryLanguage(); primary != "" {
			in.PrimaryLanguage = foundation.DefaultRegistry.DisplayName(primary)
		}
		for _, fw := range u.Profile.Frameworks {
			in.Frameworks = append(in.Frameworks, foundation.DefaultFrameworks.DisplayName(fw))
		}
	}
	for _, d := range u.Documents {
		if d.Category == models.CategoryProject {
			continue
		}
		in.Documents = append(in.Documents, DocumentRef{
			Path:  path.Join(defs.AIRulesDir, d.FileName),
			Title: d.Title,
		})
	}
	in.Languages = languageRules(u)
	return in
}

func languageRules(u *rules.Unit) []LanguageRule {
	if u.Profile == nil {
		return nil
	}
	var out []LanguageRule
	for _, tag := range u.Profile.Languages {
		info, err := foundation.DefaultRegistry.Get(tag)
		if err != nil || info.Glob == "" {
			continue
		}
		file := defs.LanguagePrefix + string(tag) + ".md"
		if !slices.ContainsFunc(u.Documents, func(d models.RuleDocument) bool { return d.FileName == file }) {
			continue
		}
		out = append(out, LanguageRule{
			Tag:      tag,
			Name:     info.Name,
			Glob:     "**/*." + info.Glob,
			Document: path.Join(defs.AIRulesDir, file),
		})
	}
	return out
}

type entrypointData struct {
	Frontmatter     string
	ToolName        string
	Description     string
	SharedDir       string
	Notes           []string
	Context         string
	PrimaryLanguage string
	Frameworks      []string
	Documents       []DocumentRef
	Language        LanguageRule
}

// ToolResult lists the files written for one tool.
type ToolResult struct {
	ID      models.ToolID
	Name    string
	Written []string
}

// Report summarizes an Apply call.
type Report struct {
	Tools []ToolResult
}

// Written returns every written path across tools.
func (r *Report) Written() []string {
	var out []string
	for _, t := range r.Tools {
		out = append(out, t.Written...)
	}
	return out
}

// Adapter renders and writes tool entrypoints.
type Adapter struct {
	renderer template.Renderer
	logger   *slog.Logger
}

// NewAdapter creates an Adapter. A nil renderer uses the embedded templates.
func NewAdapter(renderer template.Renderer, logger *slog.Logger) *Adapter {
	if renderer == nil {
		renderer = template.NewRenderer(template.EmbeddedTemplates())
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{renderer: renderer, logger: logger}
}

// Render produces the entrypoint files for one tool without touching the
// filesystem. Paths are relative to the writer's root.
func (a *Adapter) Render(tool ToolConfig, in Input) ([]template.File, error) {
	if in.SharedDir == "" {
		in.SharedDir = defs.AIRulesDir
	}

	files := make([]template.File, 0, len(tool.Outputs))
	for _, out := range tool.Outputs {
		data := entrypointData{
			ToolName:        tool.Name,
			Description:     in.Description,
			SharedDir:       in.SharedDir,
			Notes:           out.Notes,
			Context:         in.Context,
			PrimaryLanguage: in.PrimaryLanguage,
			Frameworks:      in.Frameworks,
			Documents:       in.Documents,
		}

		var name string
		switch out.Style {
		case StyleImport:
			name = template.EntrypointImportTemplate
		case StyleMDC:
			name = template.EntrypointMDCTemplate
			fm, err := template.MarshalFrontmatter(template.Frontmatter{
				Description: mdcDescription,
				AlwaysApply: true,
			})
			if err != nil {
				return nil, err
			}
			data.Frontmatter = fm
		default:
			name = template.EntrypointPointerTemplate
		}

		content, err := a.renderer.Render(name, data)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", out.Path, err)
		}
		files = append(files, template.File{
			Path:    path.Join(in.BaseDir, out.Path),
			Content: content,
		})
	}

	if tool.LanguageRuleDir == "" {
		return files, nil
	}
	for _, lang := range in.Languages {
		fm, err := template.MarshalFrontmatter(template.Frontmatter{
			Description: lang.Name + " coding standards",
			Globs:       lang.Glob,
			AlwaysApply: false,
		})
		if err != nil {
			return nil, err
		}
		rel := path.Join(tool.LanguageRuleDir, string(lang.Tag)+".mdc")
		content, err := a.renderer.Render(template.EntrypointLanguageMDCTemplate, entrypointData{
			Frontmatter: fm,
			ToolName:    tool.Name,
			SharedDir:   in.SharedDir,
			Language:    lang,
		})
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", rel, err)
		}
		files = append(files, template.File{Path: path.Join(in.BaseDir, rel), Content: content})
	}
	return files, nil
}

// Apply writes the entrypoints of the given tools through w. Tools are
// processed in catalog order; tools not listed produce no files. A failure
// in one tool does not stop the others: the returned error joins one
// *ToolError per failed tool.
func (a *Adapter) Apply(ctx context.Context, w template.Writer, ids []models.ToolID, in Input) (*Report, error) {
	report := &Report{}
	var errs []error

	for _, id := range ids {
		if _, ok := Lookup(id); !ok {
			errs = append(errs, &ToolError{Tool: id, Errs: []error{fmt.Errorf("%w: %q", ErrUnknownTool, id)}})
		}
	}

	for _, tool := range catalog {
		if !slices.Contains(ids, tool.ID) {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, &ToolError{Tool: tool.ID, Errs: []error{err}})
			continue
		}

		result := ToolResult{ID: tool.ID, Name: tool.Name}
		toolErr := &ToolError{Tool: tool.ID}

		files, err := a.Render(tool, in)
		if err != nil {
			toolErr.Errs = append(toolErr.Errs, err)
		}
		for _, f := range files {
			if err := w.Write(f); err != nil {
				toolErr.Errs = append(toolErr.Errs, err)
				continue
			}
			result.Written = append(result.Written, f.Path)
		}

		if len(toolErr.Errs) > 0 {
			a.logger.Warn("tool entrypoints failed", "tool", tool.ID, "errors", len(toolErr.Errs))
			errs = append(errs, toolErr)
		}
		a.logger.Debug("tool entrypoints written", "tool", tool.ID, "files", len(result.Written))
		report.Tools = append(report.Tools, result)
	}

	return report, errors.Join(errs...)
}
