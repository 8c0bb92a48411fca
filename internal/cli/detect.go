package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ai-rules/ai-rules-generator/internal/core/project"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show the detected languages, frameworks and packages",
	Long: `Run project detection without writing anything.

Examples:
  ai-rules detect
  ai-rules detect --json | jq .detected_languages`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().String("project-root", "", "Project root (default: nearest directory with .git, or the working directory)")
	detectCmd.Flags().Bool("monorepo", false, "Discover packages even without a workspace manifest")
	detectCmd.Flags().Bool("json", false, "Print the profile as JSON")
}

func runDetect(cmd *cobra.Command, _ []string) error {
	root, err := project.ResolveRoot(getStringFlag(cmd, "project-root"))
	if err != nil {
		return err
	}
	profile, err := deps.Detector.Detect(root, project.DetectOptions{ForceMonorepo: getBoolFlag(cmd, "monorepo")})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if getBoolFlag(cmd, "json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}

	_, _ = fmt.Fprintln(out, renderCard("Project "+profile.Name, renderProfile(profile)))
	return nil
}

func renderProfile(p *models.ProjectProfile) string {
	pairs := []kvPair{
		{"Root", p.RootPath},
		{"Languages", languageNames(p.Languages)},
		{"Frameworks", frameworkNames(p.Frameworks)},
		{"Monorepo", strconv.FormatBool(p.IsMonorepo)},
	}
	body := renderKeyValueLines(pairs)
	if len(p.SubPackages) == 0 {
		return body
	}

	items := make([]string, 0, len(p.SubPackages))
	for _, sp := range p.SubPackages {
		items = append(items, fmt.Sprintf("%s %s", sp.RelPath,
			cliMuted.Render("("+languageNames(sp.Languages)+"; "+frameworkNames(sp.Frameworks)+")")))
	}
	return body + "\n\n" + cliLabel.Render("Packages") + "\n" + renderList(items)
}
