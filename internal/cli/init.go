package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ai-rules/ai-rules-generator/internal/cli/wizard"
	"github.com/ai-rules/ai-rules-generator/internal/config"
	"github.com/ai-rules/ai-rules-generator/internal/provider"
	"github.com/ai-rules/ai-rules-generator/internal/tools"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up the global configuration",
	Long: `Set up the AI provider, model, API keys and the AI coding tools to generate
entry points for. The answers are stored in the user configuration file
(see "ai-rules config path").

Examples:
  ai-rules init
  ai-rules init --non-interactive --provider none --tools cursor,claude-code
  ai-rules init --non-interactive --provider anthropic --model claude-3-5-haiku-20241022`,
	Args:    cobra.NoArgs,
	PreRunE: validateInitFlags,
	RunE:    runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("non-interactive", false, "Skip the wizard; use flags and the current configuration")
	initCmd.Flags().String("provider", "", "AI provider: openai, anthropic or none")
	initCmd.Flags().String("model", "", "Model name (default: the provider's default model)")
	initCmd.Flags().String("tools", "", "Comma separated tools: "+strings.Join(toolIDs(), ", "))
	initCmd.Flags().String("openai-key", "", "OpenAI API key to store")
	initCmd.Flags().String("anthropic-key", "", "Anthropic API key to store")
}

// validateInitFlags validates flag values before execution.
func validateInitFlags(cmd *cobra.Command, _ []string) error {
	if p := getStringFlag(cmd, "provider"); p != "" && !models.Provider(p).IsValid() {
		return fmt.Errorf("invalid --provider value %q: must be one of: openai, anthropic, none", p)
	}
	for _, t := range config.ParseTools(getStringFlag(cmd, "tools")) {
		if !t.IsValid() {
			return fmt.Errorf("invalid --tools value %q: must be one of: %s", t, strings.Join(toolIDs(), ", "))
		}
	}
	return nil
}

func runInit(cmd *cobra.Command, _ []string) error {
	store, err := deps.EnsureStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	base := config.NewDefaultConfig()
	if _, err := store.Load(); err != nil {
		// init is how a broken file gets fixed, so start over from defaults.
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cliWarn.Render("Warning: ")+err.Error())
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Starting from the default configuration.")
	} else {
		base = store.File()
	}

	cfg := base
	if !getBoolFlag(cmd, "non-interactive") && !deps.Headless.IsHeadless() {
		_, _ = fmt.Fprintln(out, cliPrimary.Bold(true).Render("ai-rules setup"))
		_, _ = fmt.Fprintln(out, cliMuted.Render("Configure how project rules are generated."))
		_, _ = fmt.Fprintln(out)

		result, err := wizard.Run(wizard.SetupQuestions(base, keyState(store)), wizardTheme())
		if err != nil {
			return err
		}
		cfg = wizard.Apply(result, base)
	}
	applyInitFlags(cmd, cfg)

	if err := store.Save(cfg); err != nil {
		var verrs *config.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("configuration not saved: %w", err)
		}
		return err
	}

	_, _ = fmt.Fprintln(out, renderSuccessCard("Configuration saved",
		renderKeyValueLines(configPairs(store, false)),
		"",
		cliMuted.Render("Run \"ai-rules generate\" in a project to create its rules."),
	))
	return nil
}

// applyInitFlags lets explicit flags win over wizard answers.
func applyInitFlags(cmd *cobra.Command, cfg *models.GlobalConfig) {
	if p := getStringFlag(cmd, "provider"); p != "" {
		config.SwitchProvider(cfg, models.Provider(p))
	}
	if m := getStringFlag(cmd, "model"); m != "" && cfg.AIProvider != models.ProviderNone {
		cfg.AIModel = m
	}
	if cmd.Flags().Changed("tools") {
		cfg.EnabledTools = config.ParseTools(getStringFlag(cmd, "tools"))
	}
	if k := getStringFlag(cmd, "openai-key"); k != "" {
		cfg.OpenAIAPIKey = k
	}
	if k := getStringFlag(cmd, "anthropic-key"); k != "" {
		cfg.AnthropicAPIKey = k
	}
}

func keyState(store *config.Store) wizard.KeyState {
	return wizard.KeyState{
		OpenAIStored:    store.File().OpenAIAPIKey != "",
		AnthropicStored: store.File().AnthropicAPIKey != "",
		OpenAIEnv:       store.KeySource(models.ProviderOpenAI) == "env",
		AnthropicEnv:    store.KeySource(models.ProviderAnthropic) == "env",
	}
}

// wizardTheme returns nil (the branded theme) unless color is disabled.
func wizardTheme() *huh.Theme {
	if deps.Theme != nil && deps.Theme.NoColor {
		return huh.ThemeBase()
	}
	return nil
}

// configPairs lists the effective configuration for display.
func configPairs(store *config.Store, showKeys bool) []kvPair {
	cfg := store.Get()
	return []kvPair{
		{"Provider", fmt.Sprintf("%s (%s)", provider.DisplayName(cfg.AIProvider), cfg.AIProvider)},
		{"Model", cfg.AIModel},
		{"OpenAI API key", keyStatus(store, models.ProviderOpenAI, cfg.OpenAIAPIKey, showKeys)},
		{"Anthropic API key", keyStatus(store, models.ProviderAnthropic, cfg.AnthropicAPIKey, showKeys)},
		{"Enabled tools", toolNames(cfg.EnabledTools)},
		{"Config file", store.Path()},
	}
}

func keyStatus(store *config.Store, p models.Provider, key string, show bool) string {
	switch store.KeySource(p) {
	case "env":
		if show {
			return key + " (environment)"
		}
		return config.MaskAPIKey(key) + " (environment)"
	case "file":
		if show {
			return key
		}
		return config.MaskAPIKey(key)
	}
	return "Not set"
}

func toolNames(ids []models.ToolID) string {
	if len(ids) == 0 {
		return "None"
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, tools.DisplayName(id))
	}
	return strings.Join(names, ", ")
}

func toolIDs() []string {
	all := models.AllTools()
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = string(t)
	}
	return out
}
