package rules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/ai-rules/ai-rules-generator/internal/defs"
	"github.com/ai-rules/ai-rules-generator/internal/foundation"
	"github.com/ai-rules/ai-rules-generator/internal/provider"
	"github.com/ai-rules/ai-rules-generator/internal/template"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// defaultUniversal are composed for every single project and monorepo root.
var defaultUniversal = []string{"codequality", "clean-code", "database", "gitflow"}

// monorepoUniversal are added for a monorepo root only.
var monorepoUniversal = []string{"security"}

// ProviderFactory builds the model client for a configuration.
type ProviderFactory func(cfg *models.GlobalConfig) (provider.Provider, error)

// Composer turns project profiles into rule documents.
type Composer struct {
	library     *template.Library
	renderer    template.Renderer
	languages   *foundation.LanguageRegistry
	frameworks  *foundation.FrameworkRegistry
	newProvider ProviderFactory
	logger      *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithTemplates replaces the embedded template tree.
func WithTemplates(fsys fs.FS) Option {
	return func(c *Composer) {
		c.library = template.NewLibrary(fsys)
		c.renderer = template.NewRenderer(fsys)
	}
}

// WithProviderFactory replaces the model client constructor.
func WithProviderFactory(f ProviderFactory) Option {
	return func(c *Composer) { c.newProvider = f }
}

// WithLogger sets the composer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) { c.logger = logger }
}

// NewComposer creates a Composer backed by the embedded templates and the
// default catalogs.
func NewComposer(opts ...Option) *Composer {
	fsys := template.EmbeddedTemplates()
	c := &Composer{
		library:    template.NewLibrary(fsys),
		renderer:   template.NewRenderer(fsys),
		languages:  foundation.DefaultRegistry,
		frameworks: foundation.DefaultFrameworks,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.newProvider == nil {
		logger := c.logger
		c.newProvider = func(cfg *models.GlobalConfig) (provider.Provider, error) {
			return provider.New(cfg, provider.WithLogger(logger))
		}
	}
	return c
}

// unitSpec is the input of a single composition pass.
type unitSpec struct {
	profile  *models.ProjectProfile
	ruleType RuleType
	relPath  string
	packages []models.ProjectProfile
}

// Compose builds the rule documents for profile and, for a monorepo, one
// pass per sub-package. Model failures never fail the run; they are
// recorded in Plan.Warnings and the template is used instead.
func (c *Composer) Compose(ctx context.Context, profile *models.ProjectProfile, cfg *models.GlobalConfig, opts Options) (*Plan, error) {
	if profile == nil {
		return nil, ErrNilProfile
	}
	opts = opts.withDefaults(profile)

	plan := &Plan{}
	prov := c.resolveProvider(cfg, opts, plan)

	specs := []unitSpec{{profile: profile, ruleType: RuleTypeSingleProject}}
	if profile.IsMonorepo {
		specs[0].ruleType = RuleTypeMonorepoRoot
		specs[0].packages = profile.SubPackages
		for i := range profile.SubPackages {
			pkg := &profile.SubPackages[i]
			specs = append(specs, unitSpec{
				profile:  pkg,
				ruleType: RuleTypePackage,
				relPath:  pkg.RelPath,
			})
		}
	}

	for i, spec := range specs {
		notify(opts, ProgressEvent{Unit: spec.relPath, Index: i, Total: len(specs), Stage: StageStart})

		unit, warning, err := c.composeUnit(ctx, spec, prov, opts, i, len(specs))
		if err != nil {
			return nil, fmt.Errorf("compose %s: %w", unitLabel(spec.relPath), err)
		}
		if warning != nil {
			plan.Warnings = append(plan.Warnings, *warning)
		}
		plan.Units = append(plan.Units, unit)

		notify(opts, ProgressEvent{Unit: spec.relPath, Index: i, Total: len(specs), Stage: StageDone})
	}
	return plan, nil
}

// Generate composes the plan and writes it through w. Write failures are
// reported per path; the plan is returned even when some writes failed.
func (c *Composer) Generate(ctx context.Context, w template.Writer, profile *models.ProjectProfile, cfg *models.GlobalConfig, opts Options) (*Plan, []string, error) {
	plan, err := c.Compose(ctx, profile, cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	written, err := w.WriteAll(ctx, plan.Files())
	return plan, written, err
}

// resolveProvider returns nil for template mode. A configured provider that
// cannot be built adds a warning; "none" and NoAI do not.
func (c *Composer) resolveProvider(cfg *models.GlobalConfig, opts Options, plan *Plan) provider.Provider {
	if opts.NoAI || cfg == nil || !cfg.AIEnabled() {
		return nil
	}
	prov, err := c.newProvider(cfg)
	if err != nil {
		if !errors.Is(err, provider.ErrDisabled) {
			plan.Warnings = append(plan.Warnings, Warning{Kind: provider.Classify(err), Err: err})
		}
		c.logger.Debug("template mode", "reason", err)
		return nil
	}
	plan.Provider = prov.Name()
	plan.Model = prov.Model()
	return prov
}

func (c *Composer) composeUnit(ctx context.Context, spec unitSpec, prov provider.Provider, opts Options, index, total int) (Unit, *Warning, error) {
	p := spec.profile
	unit := Unit{
		Name:     p.Name,
		RelPath:  spec.relPath,
		Dir:      path.Join(spec.relPath, defs.AIRulesDir),
		RuleType: spec.ruleType,
		Mode:     ModeTemplate,
		Profile:  p,
	}
	if spec.relPath == "" {
		unit.Dir = defs.AIRulesDir
	}

	description := opts.Description
	if spec.ruleType == RuleTypePackage {
		description = fmt.Sprintf("the %s package of %s", p.Name, opts.Description)
	}

	projectContext, err := c.renderContext(p, description)
	if err != nil {
		return Unit{}, nil, err
	}
	unit.Description = description
	unit.Context = projectContext

	langDocs, err := c.languageDocuments(p)
	if err != nil {
		return Unit{}, nil, err
	}
	fwDocs, err := c.frameworkDocuments(p)
	if err != nil {
		return Unit{}, nil, err
	}
	var uniDocs []models.RuleDocument
	if spec.ruleType != RuleTypePackage {
		uniDocs, err = c.universalDocuments(p, spec.ruleType == RuleTypeMonorepoRoot)
		if err != nil {
			return Unit{}, nil, err
		}
	}

	var (
		body    string
		warning *Warning
	)
	if prov != nil {
		notify(opts, ProgressEvent{Unit: spec.relPath, Index: index, Total: total, Stage: StageAI})
		body, err = c.generateAI(ctx, prov, spec, projectContext, opts.Timeout)
		if err != nil {
			kind := provider.Classify(err)
			c.logger.Warn("AI generation failed, using templates",
				"unit", unitLabel(spec.relPath), "kind", kind, "error", err)
			warning = &Warning{Unit: spec.relPath, Kind: kind, Err: err}
			body = ""
		} else {
			unit.Mode = ModeAI
		}
	}
	if body == "" {
		body, err = c.renderProjectRules(spec, projectContext, langDocs, fwDocs, uniDocs)
		if err != nil {
			return Unit{}, nil, err
		}
	}

	project := models.RuleDocument{
		Title:        projectHeading(spec),
		BodyMarkdown: body,
		Category:     models.CategoryProject,
		FileName:     defs.ProjectRulesMD,
		Summary:      "Main project-specific rules and guidelines",
	}

	docs := make([]models.RuleDocument, 0, 1+len(langDocs)+len(fwDocs)+len(uniDocs))
	docs = append(docs, project)
	docs = append(docs, langDocs...)
	docs = append(docs, fwDocs...)
	docs = append(docs, uniDocs...)
	unit.Documents = docs

	unit.Index, err = c.renderIndex(spec, description, docs, opts.Tools)
	if err != nil {
		return Unit{}, nil, err
	}

	c.logger.Debug("composed unit",
		"unit", unitLabel(spec.relPath), "type", spec.ruleType, "mode", unit.Mode, "documents", len(docs))
	return unit, warning, nil
}

func (c *Composer) generateAI(ctx context.Context, prov provider.Provider, spec unitSpec, projectContext string, timeout time.Duration) (string, error) {
	prompt, err := c.buildPrompt(spec, projectContext)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := prov.Complete(ctx, provider.Request{
		System:      SystemPrompt,
		Prompt:      prompt,
		MaxTokens:   provider.DefaultMaxTokens,
		Temperature: provider.DefaultTemperature,
	})
	if err != nil {
		return "", err
	}
	body := normalizeMarkdown(out)
	if body == "" {
		return "", provider.ErrEmptyResponse
	}
	return body, nil
}

func notify(opts Options, ev ProgressEvent) {
	if opts.Progress != nil {
		opts.Progress(ev)
	}
}

func unitLabel(relPath string) string {
	if relPath == "" {
		return "root"
	}
	return relPath
}

func projectHeading(spec unitSpec) string {
	if spec.ruleType == RuleTypePackage {
		return "AI Coding Agent Rules: " + spec.profile.Name
	}
	return "AI Coding Agent Rules"
}

// normalizeMarkdown trims a model response and removes a fence wrapping the
// whole document. The result ends with exactly one newline, or is empty.
func normalizeMarkdown(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = strings.TrimSpace(strings.TrimSuffix(s[nl+1:], "```"))
		}
	}
	if s == "" {
		return ""
	}
	return s + "\n"
}
