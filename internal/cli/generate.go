package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ai-rules/ai-rules-generator/internal/cli/wizard"
	"github.com/ai-rules/ai-rules-generator/internal/config"
	"github.com/ai-rules/ai-rules-generator/internal/core/project"
	"github.com/ai-rules/ai-rules-generator/internal/defs"
	"github.com/ai-rules/ai-rules-generator/internal/foundation"
	"github.com/ai-rules/ai-rules-generator/internal/provider"
	"github.com/ai-rules/ai-rules-generator/internal/rules"
	"github.com/ai-rules/ai-rules-generator/internal/template"
	"github.com/ai-rules/ai-rules-generator/internal/tools"
	"github.com/ai-rules/ai-rules-generator/internal/ui"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate rules for the current project",
	Long: `Detect the project's languages and frameworks, compose the shared rules in
.ai-rules/ and write the entry point files of the enabled tools.

In a monorepo every package gets its own .ai-rules/ directory and entry
points. AI failures fall back to templates and are listed as warnings.

Examples:
  ai-rules generate
  ai-rules generate --no-ai --tools cursor,copilot
  ai-rules generate --language python --frameworks fastapi
  ai-rules generate --project-root ./services/api --description "Billing API"`,
	Args:    cobra.NoArgs,
	PreRunE: validateGenerateFlags,
	RunE:    runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("project-root", "", "Project root (default: nearest directory with .git, or the working directory)")
	generateCmd.Flags().String("description", "", "One-line project description")
	generateCmd.Flags().String("language", "", "Comma separated languages, replacing the detected ones")
	generateCmd.Flags().String("frameworks", "", "Comma separated frameworks, replacing the detected ones")
	generateCmd.Flags().String("tools", "", "Comma separated tools (default: the configured tools)")
	generateCmd.Flags().Bool("monorepo", false, "Discover packages even without a workspace manifest")
	generateCmd.Flags().Bool("no-ai", false, "Use templates only")
	generateCmd.Flags().BoolP("interactive", "i", false, "Ask for the description and tools")
	generateCmd.Flags().Duration("timeout", rules.DefaultTimeout, "Timeout for each AI request")
}

// validateGenerateFlags validates flag values before execution.
func validateGenerateFlags(cmd *cobra.Command, _ []string) error {
	if _, err := parseLanguages(getStringFlag(cmd, "language")); err != nil {
		return err
	}
	if _, err := parseFrameworks(getStringFlag(cmd, "frameworks")); err != nil {
		return err
	}
	for _, t := range config.ParseTools(getStringFlag(cmd, "tools")) {
		if !t.IsValid() {
			return fmt.Errorf("invalid --tools value %q: must be one of: %s", t, strings.Join(toolIDs(), ", "))
		}
	}
	if d, err := cmd.Flags().GetDuration("timeout"); err == nil && d <= 0 {
		return fmt.Errorf("invalid --timeout value %s: must be positive", d)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	root, err := project.ResolveRoot(getStringFlag(cmd, "project-root"))
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(root); err != nil {
		deps.Logger.Warn("dotenv not loaded", "error", err)
	}

	_, cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	profile, err := detectProfile(cmd, root)
	if err != nil {
		return err
	}

	enabled := cfg.EnabledTools
	if cmd.Flags().Changed("tools") {
		enabled = config.ParseTools(getStringFlag(cmd, "tools"))
	}
	description := getStringFlag(cmd, "description")

	if getBoolFlag(cmd, "interactive") && !deps.Headless.IsHeadless() {
		def := description
		if def == "" {
			def = "the " + profile.Name + " project"
		}
		result, err := wizard.Run(wizard.GenerateQuestions(def, enabled), wizardTheme())
		if err != nil {
			return err
		}
		description = result.Description
		if result.Tools != nil {
			enabled = result.Tools
		}
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	return runGeneration(cmd, generation{
		root:        root,
		profile:     profile,
		cfg:         cfg,
		tools:       enabled,
		description: description,
		noAI:        getBoolFlag(cmd, "no-ai"),
		timeout:     timeout,
	})
}

// detectProfile runs detection under a spinner and applies the
// --language/--frameworks overrides to the root profile.
func detectProfile(cmd *cobra.Command, root string) (*models.ProjectProfile, error) {
	sp := deps.Progress.Spinner("Detecting project")
	profile, err := deps.Detector.Detect(root, project.DetectOptions{ForceMonorepo: getBoolFlag(cmd, "monorepo")})
	sp.Stop()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("language") {
		langs, err := parseLanguages(getStringFlag(cmd, "language"))
		if err != nil {
			return nil, err
		}
		profile.SetLanguages(langs)
	}
	if cmd.Flags().Changed("frameworks") {
		fws, err := parseFrameworks(getStringFlag(cmd, "frameworks"))
		if err != nil {
			return nil, err
		}
		profile.SetFrameworks(fws)
	}
	return profile, nil
}

// generation is the input of one compose-and-adapt run.
type generation struct {
	root        string
	profile     *models.ProjectProfile
	cfg         *models.GlobalConfig
	tools       []models.ToolID
	description string
	noAI        bool
	timeout     time.Duration
}

// runGeneration composes the plan, writes it, applies the tool adapters to
// every unit and prints the summary. Write failures are collected and
// returned together after the summary.
func runGeneration(cmd *cobra.Command, g generation) error {
	ctx := cmd.Context()
	logger := deps.Logger.With("run_id", uuid.NewString())
	logger.Info("generation started",
		"root", g.root,
		"monorepo", g.profile.IsMonorepo,
		"packages", len(g.profile.SubPackages),
		"tools", len(g.tools),
		"no_ai", g.noAI,
	)

	tracker := ui.NewTracker(deps.Progress)
	w := template.NewWriter(g.root, logger)
	plan, written, genErr := deps.Composer(logger).Generate(ctx, w, g.profile, g.cfg, rules.Options{
		Description: g.description,
		NoAI:        g.noAI,
		Timeout:     g.timeout,
		Tools:       tools.Usage(g.tools),
		Progress:    tracker.Handle,
	})
	tracker.Finish()
	if plan == nil {
		return genErr
	}

	var errs []error
	if genErr != nil {
		errs = append(errs, genErr)
	}
	for i := range plan.Units {
		report, err := deps.Adapter.Apply(ctx, w, g.tools, tools.InputForUnit(&plan.Units[i]))
		written = append(written, report.Written()...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	logger.Info("generation finished", "files", len(written), "warnings", len(plan.Warnings), "errors", len(errs))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(g, plan, written, errs))

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmt.Errorf("some files could not be written: %w", errors.Join(errs...))
	}
	return nil
}

// renderSummary renders the end-of-run card.
func renderSummary(g generation, plan *rules.Plan, written []string, errs []error) string {
	pairs := []kvPair{
		{"Project", g.root},
		{"Mode", modeLabel(plan)},
		{"Languages", languageNames(g.profile.Languages)},
		{"Frameworks", frameworkNames(g.profile.Frameworks)},
	}
	if g.profile.IsMonorepo {
		pairs = append(pairs, kvPair{"Packages", strconv.Itoa(len(plan.Packages()))})
	}
	pairs = append(pairs,
		kvPair{"Files written", strconv.Itoa(len(written))},
		kvPair{"Tools", toolNames(g.tools)},
	)

	blocks := []string{renderKeyValueLines(pairs)}
	if pkgs := plan.Packages(); len(pkgs) > 0 {
		items := make([]string, 0, len(pkgs))
		for _, u := range pkgs {
			items = append(items, u.RelPath+" "+cliMuted.Render("("+languageNames(u.Profile.Languages)+")"))
		}
		blocks = append(blocks, "", cliLabel.Render("Packages"), renderList(items))
	}
	if len(plan.Warnings) > 0 {
		items := make([]string, 0, len(plan.Warnings))
		for _, w := range plan.Warnings {
			items = append(items, w.String())
		}
		blocks = append(blocks, "", cliWarn.Render("Warnings"), renderList(items))
	}
	if len(errs) > 0 {
		items := make([]string, 0, len(errs))
		for _, err := range errs {
			items = append(items, err.Error())
		}
		blocks = append(blocks, "", cliError.Render("Errors"), renderList(items))
	}
	blocks = append(blocks, "", cliMuted.Render("Shared rules: "+defs.AIRulesDir+"/"+defs.IndexMD+". Preview with \"ai-rules preview\"."))

	if len(errs) > 0 {
		return renderCard("Rules generated with errors", strings.Join(blocks, "\n"))
	}
	return renderSuccessCard("Rules generated", blocks...)
}

func modeLabel(plan *rules.Plan) string {
	if plan.Provider == "" {
		return "Templates"
	}
	label := fmt.Sprintf("AI (%s, %s)", provider.DisplayName(plan.Provider), plan.Model)
	fallback := 0
	for _, u := range plan.Units {
		if u.Mode == rules.ModeTemplate {
			fallback++
		}
	}
	if fallback > 0 {
		label += fmt.Sprintf(", %d of %d from templates", fallback, len(plan.Units))
	}
	return label
}

func languageNames(tags []models.LanguageTag) string {
	if len(tags) == 0 {
		return "None detected"
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = foundation.DefaultRegistry.DisplayName(t)
	}
	return strings.Join(names, ", ")
}

func frameworkNames(tags []models.FrameworkTag) string {
	if len(tags) == 0 {
		return "None detected"
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = foundation.DefaultFrameworks.DisplayName(t)
	}
	return strings.Join(names, ", ")
}

func parseLanguages(value string) ([]models.LanguageTag, error) {
	var out []models.LanguageTag
	for _, s := range splitList(value) {
		tag, ok := models.ParseLanguage(s)
		if !ok {
			return nil, fmt.Errorf("invalid --language value %q: must be one of: %s", s, joinTags(models.AllLanguages()))
		}
		out = append(out, tag)
	}
	return out, nil
}

func parseFrameworks(value string) ([]models.FrameworkTag, error) {
	var out []models.FrameworkTag
	for _, s := range splitList(value) {
		tag, ok := models.ParseFramework(s)
		if !ok {
			return nil, fmt.Errorf("invalid --frameworks value %q: must be one of: %s", s, joinTags(models.AllFrameworks()))
		}
		out = append(out, tag)
	}
	return out, nil
}

func splitList(value string) []string {
	var out []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinTags[T ~string](tags []T) string {
	s := make([]string, len(tags))
	for i, t := range tags {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}
