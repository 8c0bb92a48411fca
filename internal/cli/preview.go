package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ai-rules/ai-rules-generator/internal/core/project"
	"github.com/ai-rules/ai-rules-generator/internal/defs"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Render a generated rule file in the terminal",
	Long: `Render a shared rule file as formatted markdown. Without an argument the
index (.ai-rules/README.md) is shown. A bare file name is looked up in
.ai-rules/; a path is taken relative to the project root.

Examples:
  ai-rules preview
  ai-rules preview project-rules.md
  ai-rules preview packages/web/.ai-rules/README.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().String("project-root", "", "Project root (default: nearest directory with .git, or the working directory)")
	previewCmd.Flags().Bool("raw", false, "Print the markdown without formatting")
}

func runPreview(cmd *cobra.Command, args []string) error {
	root, err := project.ResolveRoot(getStringFlag(cmd, "project-root"))
	if err != nil {
		return err
	}

	name := defs.IndexMD
	if len(args) == 1 {
		name = args[0]
	}
	path := previewPath(root, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s not found; run \"ai-rules generate\" first", path)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if getBoolFlag(cmd, "raw") {
		_, err = out.Write(data)
		return err
	}

	rendered, err := renderMarkdown(string(data), deps.Headless.IsHeadless() || deps.Theme.NoColor)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

// previewPath resolves a preview argument. Bare names live in the root's
// shared rules directory.
func previewPath(root, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if !strings.ContainsAny(name, `/\`) {
		return filepath.Join(root, defs.AIRulesDir, name)
	}
	return filepath.Join(root, filepath.FromSlash(name))
}

func renderMarkdown(md string, plain bool) (string, error) {
	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
