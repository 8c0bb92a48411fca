package rules

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/ai-rules/ai-rules-generator/internal/defs"
	"github.com/ai-rules/ai-rules-generator/internal/template"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

type contextData struct {
	Description     string
	PrimaryLanguage string
	Languages       []string
	Frameworks      []string
	IsMonorepo      bool
}

type commandData struct {
	Label   string
	Command string
}

type categoryData struct {
	Title    string
	Body     string
	Commands []commandData
}

type docRef struct {
	File  string
	Title string
}

type packageRow struct {
	Name     string
	Path     string
	Stack    string
	RulesDir string
}

type projectRulesData struct {
	Heading       string
	Context       string
	RootRules     string
	Guidelines    string
	IsMonorepo    bool
	Packages      []packageRow
	LanguageDocs  []docRef
	FrameworkDocs []docRef
	UniversalDocs []docRef
	SharedDir     string
}

type indexDocument struct {
	File        string
	Description string
}

type indexData struct {
	Heading     string
	PackagePath string
	Documents   []indexDocument
	Description string
	Languages   []string
	Frameworks  []string
	IsMonorepo  bool
	Packages    []packageRow
	RootIndex   string
	Tools       []ToolUsage
}

func (c *Composer) renderContext(p *models.ProjectProfile, description string) (string, error) {
	data := contextData{
		Description: description,
		Languages:   c.languageNames(p.Languages),
		Frameworks:  c.frameworkNames(p.Frameworks),
		IsMonorepo:  p.IsMonorepo,
	}
	if primary := p.PrimaryLanguage(); primary != "" {
		data.PrimaryLanguage = c.languages.DisplayName(primary)
	}
	out, err := c.renderer.Render(template.ContextTemplate, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// languageDocuments renders one document per detected language. Tags with
// no fragment are skipped.
func (c *Composer) languageDocuments(p *models.ProjectProfile) ([]models.RuleDocument, error) {
	var docs []models.RuleDocument
	for _, tag := range p.Languages {
		frag, err := c.library.Language(tag)
		if errors.Is(err, template.ErrTemplateNotFound) {
			c.logger.Debug("no language fragment", "language", tag)
			continue
		}
		if err != nil {
			return nil, err
		}

		name := c.languages.DisplayName(tag)
		data := categoryData{
			Title: name + " Best Practices",
			Body:  frag.Body,
		}
		if info, err := c.languages.Get(tag); err == nil {
			data.Commands = commandList(info.Commands.Install, info.Commands.Test, info.Commands.Build, info.Commands.Lint)
		}

		doc, err := c.renderCategory(data, models.CategoryLanguage, defs.LanguagePrefix+string(tag)+".md")
		if err != nil {
			return nil, err
		}
		doc.Summary = summaryOr(frag.Description, name+" language best practices")
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Composer) frameworkDocuments(p *models.ProjectProfile) ([]models.RuleDocument, error) {
	var docs []models.RuleDocument
	for _, tag := range p.Frameworks {
		frag, err := c.library.Framework(tag)
		if errors.Is(err, template.ErrTemplateNotFound) {
			c.logger.Debug("no framework fragment", "framework", tag)
			continue
		}
		if err != nil {
			return nil, err
		}

		name := c.frameworks.DisplayName(tag)
		doc, err := c.renderCategory(categoryData{
			Title: name + " Best Practices",
			Body:  frag.Body,
		}, models.CategoryFramework, defs.FrameworkPrefix+string(tag)+".md")
		if err != nil {
			return nil, err
		}
		doc.Summary = summaryOr(frag.Description, name+" framework rules")
		docs = append(docs, doc)
	}
	return docs, nil
}

// universalDocuments renders the universal rules. A rule is skipped when a
// framework with the same tag was detected.
func (c *Composer) universalDocuments(p *models.ProjectProfile, monorepoRoot bool) ([]models.RuleDocument, error) {
	names := slices.Clone(defaultUniversal)
	if monorepoRoot {
		names = append(names, monorepoUniversal...)
	}

	var docs []models.RuleDocument
	for _, name := range names {
		if p.HasFramework(models.FrameworkTag(name)) {
			continue
		}
		frag, err := c.library.Universal(name)
		if errors.Is(err, template.ErrTemplateNotFound) {
			c.logger.Debug("no universal fragment", "rule", name)
			continue
		}
		if err != nil {
			return nil, err
		}

		doc, err := c.renderCategory(categoryData{
			Title: frag.Title,
			Body:  frag.Body,
		}, models.CategoryUniversal, defs.UniversalPrefix+name+".md")
		if err != nil {
			return nil, err
		}
		doc.Summary = summaryOr(frag.Description, "Universal "+template.Title(name)+" rules")
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Composer) renderCategory(data categoryData, category models.Category, fileName string) (models.RuleDocument, error) {
	out, err := c.renderer.Render(template.CategoryTemplate, data)
	if err != nil {
		return models.RuleDocument{}, fmt.Errorf("render %s: %w", fileName, err)
	}
	return models.RuleDocument{
		Title:        data.Title,
		BodyMarkdown: ensureNewline(string(out)),
		Category:     category,
		FileName:     fileName,
	}, nil
}

func (c *Composer) renderProjectRules(spec unitSpec, projectContext string, langDocs, fwDocs, uniDocs []models.RuleDocument) (string, error) {
	guidelines, err := c.library.Guidelines()
	if err != nil {
		return "", err
	}

	data := projectRulesData{
		Heading:       projectHeading(spec),
		Context:       projectContext,
		Guidelines:    guidelines,
		IsMonorepo:    spec.ruleType == RuleTypeMonorepoRoot,
		Packages:      c.packageRows(spec.packages),
		LanguageDocs:  refs(langDocs),
		FrameworkDocs: refs(fwDocs),
		UniversalDocs: refs(uniDocs),
		SharedDir:     defs.AIRulesDir,
	}
	if spec.ruleType == RuleTypePackage {
		data.RootRules = rootRelative(spec.relPath, defs.ProjectRulesMD)
	}

	out, err := c.renderer.Render(template.ProjectRulesTemplate, data)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", defs.ProjectRulesMD, err)
	}
	return ensureNewline(string(out)), nil
}

func (c *Composer) renderIndex(spec unitSpec, description string, docs []models.RuleDocument, tools []ToolUsage) (models.RuleDocument, error) {
	p := spec.profile
	data := indexData{
		Heading:     "Shared AI Rules",
		PackagePath: spec.relPath,
		Description: description,
		Languages:   c.languageNames(p.Languages),
		Frameworks:  c.frameworkNames(p.Frameworks),
		IsMonorepo:  p.IsMonorepo,
		Packages:    c.packageRows(spec.packages),
		Tools:       tools,
	}
	for _, d := range docs {
		data.Documents = append(data.Documents, indexDocument{File: d.FileName, Description: d.Summary})
	}
	if spec.ruleType == RuleTypePackage {
		data.RootIndex = rootRelative(spec.relPath, defs.IndexMD)
	}

	out, err := c.renderer.Render(template.IndexTemplate, data)
	if err != nil {
		return models.RuleDocument{}, fmt.Errorf("render %s: %w", defs.IndexMD, err)
	}
	return models.RuleDocument{
		Title:        data.Heading,
		BodyMarkdown: ensureNewline(string(out)),
		Category:     models.CategoryProject,
		FileName:     defs.IndexMD,
		Summary:      "Index of all rule files",
	}, nil
}

func (c *Composer) packageRows(pkgs []models.ProjectProfile) []packageRow {
	rows := make([]packageRow, 0, len(pkgs))
	for i := range pkgs {
		pkg := &pkgs[i]
		rows = append(rows, packageRow{
			Name:     pkg.Name,
			Path:     pkg.RelPath,
			Stack:    c.stack(pkg),
			RulesDir: path.Join(pkg.RelPath, defs.AIRulesDir),
		})
	}
	return rows
}

// stack summarizes a profile as "Python (FastAPI)".
func (c *Composer) stack(p *models.ProjectProfile) string {
	langs := c.languageNames(p.Languages)
	if len(langs) == 0 {
		return "unknown"
	}
	s := strings.Join(langs, ", ")
	if fws := c.frameworkNames(p.Frameworks); len(fws) > 0 {
		s += " (" + strings.Join(fws, ", ") + ")"
	}
	return s
}

func (c *Composer) languageNames(tags []models.LanguageTag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, c.languages.DisplayName(t))
	}
	return names
}

func (c *Composer) frameworkNames(tags []models.FrameworkTag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, c.frameworks.DisplayName(t))
	}
	return names
}

// rootRelative returns the path from a package directory to a file in the
// repository's shared rules directory.
func rootRelative(relPath, file string) string {
	depth := len(strings.Split(path.Clean(relPath), "/"))
	return strings.Repeat("../", depth) + path.Join(defs.AIRulesDir, file)
}

func refs(docs []models.RuleDocument) []docRef {
	out := make([]docRef, 0, len(docs))
	for _, d := range docs {
		out = append(out, docRef{File: d.FileName, Title: d.Title})
	}
	return out
}

func commandList(install, test, build, lint string) []commandData {
	var out []commandData
	for _, cmd := range []commandData{
		{"Install", install},
		{"Test", test},
		{"Build", build},
		{"Lint", lint},
	} {
		if cmd.Command != "" {
			out = append(out, cmd)
		}
	}
	return out
}

func summaryOr(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func ensureNewline(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}
