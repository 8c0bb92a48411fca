package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ai-rules/ai-rules-generator/internal/cli/wizard"
	"github.com/ai-rules/ai-rules-generator/internal/ui"
	"github.com/ai-rules/ai-rules-generator/pkg/version"
)

// ExitInterrupted is the exit status after Ctrl+C or an aborted prompt.
const ExitInterrupted = 130

var rootCmd = &cobra.Command{
	Use:   "ai-rules",
	Short: "Generate rule files for AI coding assistants",
	Long: `ai-rules detects a project's languages and frameworks and writes a shared
.ai-rules/ directory of coding rules, plus the entry point files each AI
coding tool expects (Cursor, Claude Code, Windsurf, Copilot, Warp, Janie).

Rules come from built-in templates, or are tailored by OpenAI or Anthropic
when an API key is configured. AI failures always fall back to templates.`,
	Version:           version.GetVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyGlobalFlags,
}

// Execute initializes dependencies and runs the root command. Errors are
// printed here; the caller only maps them to an exit code.
func Execute() error {
	InitDependencies()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if ExitCode(err) == ExitInterrupted {
			_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), "Cancelled.")
		} else {
			_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), cliError.Render("Error: ")+err.Error())
		}
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, wizard.ErrCancelled), errors.Is(err, ui.ErrCancelled), errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return 1
	}
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("ai-rules %s\n", version.GetFullVersion()))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Write debug logs to stderr")
}

// applyGlobalFlags switches to a debug logger when --verbose is given.
func applyGlobalFlags(cmd *cobra.Command, _ []string) error {
	if err := requireDeps(); err != nil {
		return err
	}
	if getBoolFlag(cmd, "verbose") {
		deps.SetLogger(newLogger("debug", cmd.ErrOrStderr()))
	}
	return nil
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}
