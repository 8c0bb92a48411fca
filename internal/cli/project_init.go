package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ai-rules/ai-rules-generator/internal/config"
	"github.com/ai-rules/ai-rules-generator/internal/core/project"
	"github.com/ai-rules/ai-rules-generator/internal/defs"
	"github.com/ai-rules/ai-rules-generator/internal/rules"
)

var projectInitCmd = &cobra.Command{
	Use:   "project-init",
	Short: "Initialize rules for a project with the global settings",
	Long: `Detect the project and generate its rules with the configured provider and
tools, without per-run prompts. Use "ai-rules generate" for overrides.

Examples:
  ai-rules project-init
  ai-rules project-init --project-root ../billing --no-ai`,
	Args: cobra.NoArgs,
	RunE: runProjectInit,
}

func init() {
	rootCmd.AddCommand(projectInitCmd)

	projectInitCmd.Flags().String("project-root", "", "Project root (default: nearest directory with .git, or the working directory)")
	projectInitCmd.Flags().Bool("no-ai", false, "Use templates only")
}

func runProjectInit(cmd *cobra.Command, _ []string) error {
	root, err := project.ResolveRoot(getStringFlag(cmd, "project-root"))
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(root); err != nil {
		deps.Logger.Warn("dotenv not loaded", "error", err)
	}

	out := cmd.OutOrStdout()
	store, cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !store.Exists() && !deps.Headless.IsHeadless() {
		ok, err := deps.confirm("Continue with the default configuration?", false)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Run \"ai-rules init\" to configure, then try again.")
			return nil
		}
	}

	if info, err := os.Stat(filepath.Join(root, defs.AIRulesDir)); err == nil && info.IsDir() {
		// Headless runs take the default and regenerate.
		ok, err := deps.confirm("This project already has "+defs.AIRulesDir+"/. Re-initialize it?", true)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Project rules left unchanged.")
			return nil
		}
	}

	profile, err := detectProfile(cmd, root)
	if err != nil {
		return err
	}

	return runGeneration(cmd, generation{
		root:    root,
		profile: profile,
		cfg:     cfg,
		tools:   cfg.EnabledTools,
		noAI:    getBoolFlag(cmd, "no-ai"),
		timeout: rules.DefaultTimeout,
	})
}
