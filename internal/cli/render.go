package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ai-rules/ai-rules-generator/internal/cli/wizard"
)

// CLI styles sharing the wizard palette.
var (
	cliPrimary = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: wizard.ColorPrimary})
	cliBorder  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: wizard.ColorBorder})
	cliSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#15803D", Dark: wizard.ColorSuccess})
	cliWarn    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"})
	cliError   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: wizard.ColorError}).Bold(true)
	cliMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#4B5563", Dark: wizard.ColorMuted})
	cliLabel   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0E7490", Dark: wizard.ColorSecondary}).Bold(true)
)

// cardStyle returns a lipgloss style for a rounded-border card.
func cardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cliBorder.GetForeground()).
		Padding(0, 2)
}

// renderCard renders content inside a rounded border box with a styled title.
func renderCard(title, content string) string {
	return cardStyle().Render(cliPrimary.Bold(true).Render(title) + "\n\n" + content)
}

// renderSuccessCard renders a check-marked title and detail blocks in a card.
func renderSuccessCard(title string, details ...string) string {
	var body strings.Builder
	body.WriteString(cliSuccess.Render("✓") + " " + title)
	if len(details) > 0 {
		body.WriteString("\n\n")
		body.WriteString(strings.Join(details, "\n"))
	}
	return cardStyle().Render(body.String())
}

type kvPair struct {
	key   string
	value string
}

// renderKeyValueLines aligns keys into a column.
func renderKeyValueLines(pairs []kvPair) string {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p.key))
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		key := cliLabel.Render(p.key + ":" + strings.Repeat(" ", width-len(p.key)))
		lines = append(lines, key+" "+p.value)
	}
	return strings.Join(lines, "\n")
}

// renderList renders items as an indented bullet list.
func renderList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "  • "+it)
	}
	return strings.Join(lines, "\n")
}
