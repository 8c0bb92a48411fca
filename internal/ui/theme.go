// Package ui provides the terminal presentation layer: color theme,
// headless detection, confirmation prompts and the spinner/progress bar
// shown while rules are composed.
package ui

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ai-rules/ai-rules-generator/internal/defs"
)

// Colors holds the hex palette used by styled output.
type Colors struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
}

// ThemeConfig selects a palette.
type ThemeConfig struct {
	NoColor bool
	// Mode is "dark" or "light". Anything else is treated as dark.
	Mode string
}

// Theme is the resolved palette plus the lipgloss styles built from it.
type Theme struct {
	NoColor bool
	Colors  Colors
}

var (
	darkColors = Colors{
		Primary:   "#7C3AED",
		Secondary: "#06B6D4",
		Success:   "#22C55E",
		Warning:   "#F59E0B",
		Error:     "#EF4444",
		Muted:     "#9CA3AF",
	}
	lightColors = Colors{
		Primary:   "#5B21B6",
		Secondary: "#0E7490",
		Success:   "#15803D",
		Warning:   "#B45309",
		Error:     "#B91C1C",
		Muted:     "#4B5563",
	}
)

// NewTheme builds a Theme from cfg.
func NewTheme(cfg ThemeConfig) *Theme {
	colors := darkColors
	if cfg.Mode == "light" {
		colors = lightColors
	}
	return &Theme{NoColor: cfg.NoColor, Colors: colors}
}

// ThemeFromEnv disables color when NO_COLOR or AI_RULES_NO_COLOR is set.
func ThemeFromEnv() *Theme {
	noColor := os.Getenv("NO_COLOR") != "" || os.Getenv(defs.EnvNoColor) != ""
	mode := "dark"
	if !lipgloss.HasDarkBackground() {
		mode = "light"
	}
	return NewTheme(ThemeConfig{NoColor: noColor, Mode: mode})
}

func (t *Theme) fg(hex string) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// Title styles headings.
func (t *Theme) Title() lipgloss.Style { return t.fg(t.Colors.Primary).Bold(true) }

// Success styles confirmations.
func (t *Theme) Success() lipgloss.Style { return t.fg(t.Colors.Success) }

// Warning styles non-fatal problems such as an AI fallback.
func (t *Theme) Warning() lipgloss.Style { return t.fg(t.Colors.Warning) }

// Error styles failures.
func (t *Theme) Error() lipgloss.Style { return t.fg(t.Colors.Error).Bold(true) }

// Muted styles secondary text.
func (t *Theme) Muted() lipgloss.Style { return t.fg(t.Colors.Muted) }

// Label styles the key column of key/value listings.
func (t *Theme) Label() lipgloss.Style { return t.fg(t.Colors.Secondary).Bold(true) }

// Card styles a bordered summary box.
func (t *Theme) Card() lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if !t.NoColor {
		s = s.BorderForeground(lipgloss.Color(t.Colors.Primary))
	}
	return s
}

// Huh returns the form theme matching t.
func (t *Theme) Huh() *huh.Theme {
	if t.NoColor {
		return huh.ThemeBase()
	}
	return huh.ThemeCharm()
}
