package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ai-rules/ai-rules-generator/internal/cli/wizard"
	"github.com/ai-rules/ai-rules-generator/internal/config"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the global configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configuration with the setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single configuration value",
	Long: `Set a single configuration value.

Keys:
  provider        openai, anthropic or none
  model           model name for the selected provider
  openai-key      OpenAI API key
  anthropic-key   Anthropic API key
  enabled-tools   comma separated tool list, e.g. cursor,claude-code`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the configuration file and return to defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configEditCmd, configSetCmd, configResetCmd, configPathCmd)

	for _, c := range []*cobra.Command{configCmd, configShowCmd} {
		c.Flags().Bool("show-keys", false, "Print API keys in full")
	}
	configResetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// loadConfig loads the store. A missing file prints a setup hint to w; a
// malformed file is an error with guidance.
func loadConfig(w io.Writer) (*config.Store, *models.GlobalConfig, error) {
	store, err := deps.EnsureStore()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := store.Load()
	if err != nil {
		if errors.Is(err, config.ErrMalformedFile) || errors.Is(err, config.ErrInvalidConfig) {
			return nil, nil, fmt.Errorf("%w\nfix %s by hand, or run \"ai-rules config reset\" and \"ai-rules init\"", err, store.Path())
		}
		return nil, nil, err
	}
	if !store.Exists() {
		_, _ = fmt.Fprintln(w, cliMuted.Render("No configuration found, using defaults. Run \"ai-rules init\" to set up."))
	}
	return store, cfg, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, _, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(),
		renderCard("AI Rules Generator Configuration", renderKeyValueLines(configPairs(store, getBoolFlag(cmd, "show-keys")))))
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	if deps.Headless.IsHeadless() {
		return fmt.Errorf("config edit needs an interactive terminal; use \"ai-rules config set\" instead")
	}
	store, _, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	base := store.File()
	result, err := wizard.Run(wizard.SetupQuestions(base, keyState(store)), wizardTheme())
	if err != nil {
		return err
	}
	if err := store.Save(wizard.Apply(result, base)); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderSuccessCard("Configuration updated", renderKeyValueLines(configPairs(store, false))))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, _, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := store.Set(key, value); err != nil {
		return err
	}

	shown := value
	if key == config.KeyOpenAIKey || key == config.KeyAnthropicKey {
		shown = config.MaskAPIKey(strings.TrimSpace(value))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", cliSuccess.Render("✓"), key, shown)
	return nil
}

func runConfigReset(cmd *cobra.Command, _ []string) error {
	store, err := deps.EnsureStore()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	_, _ = store.Load()
	if !store.Exists() {
		_, _ = fmt.Fprintln(out, "No configuration file found. Already using defaults.")
		return nil
	}

	if !getBoolFlag(cmd, "yes") {
		if deps.Headless.IsHeadless() {
			return fmt.Errorf("refusing to reset without confirmation; pass --yes")
		}
		ok, err := deps.confirm("Reset the configuration to defaults?", false)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Reset cancelled.")
			return nil
		}
	}

	if err := store.Reset(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Configuration reset to defaults.")
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := deps.EnsureStore()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), store.Path())
	return nil
}
