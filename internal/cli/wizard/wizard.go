package wizard

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ai-rules/ai-rules-generator/internal/provider"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// Run executes the wizard and returns the result. Each question runs as its
// own huh.Form so conditions see the answers given so far. A nil theme uses
// the default wizard theme.
func Run(questions []Question, theme *huh.Theme) (*Result, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if theme == nil {
		theme = newWizardTheme()
	}

	result := &Result{}
	for i := range questions {
		q := &questions[i]
		if q.Condition != nil && !q.Condition(result) {
			continue
		}

		field, commit := buildField(q)
		form := huh.NewForm(huh.NewGroup(field)).
			WithTheme(theme).
			WithAccessible(false)

		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("wizard error: %w", err)
		}
		commit(result)
	}
	return result, nil
}

// buildField creates the huh field for q and a func that stores the
// answer once the form completes.
func buildField(q *Question) (huh.Field, func(*Result)) {
	switch q.Type {
	case QuestionTypeMultiSelect:
		selected := append([]string(nil), q.Defaults...)
		opts := make([]huh.Option[string], len(q.Options))
		for i, o := range q.Options {
			opts[i] = huh.NewOption(optionLabel(o), o.Value).Selected(slices.Contains(q.Defaults, o.Value))
		}
		ms := huh.NewMultiSelect[string]().
			Title(q.Title).
			Description(q.Description).
			Options(opts...).
			Value(&selected)
		return ms, func(r *Result) { saveMulti(q.ID, selected, r) }

	case QuestionTypeSelect:
		selected := q.Default
		opts := make([]huh.Option[string], len(q.Options))
		for i, o := range q.Options {
			opts[i] = huh.NewOption(optionLabel(o), o.Value)
		}
		sel := huh.NewSelect[string]().
			Title(q.Title).
			Description(q.Description).
			Options(opts...).
			Value(&selected)
		return sel, func(r *Result) { saveAnswer(q.ID, selected, r) }

	default:
		value := q.Default
		inp := huh.NewInput().
			Title(q.Title).
			Description(q.Description).
			Value(&value)
		if q.Type == QuestionTypeSecret {
			inp = inp.EchoMode(huh.EchoModePassword)
		} else if q.Default != "" {
			inp = inp.Placeholder(q.Default)
		}

		required, def := q.Required, q.Default
		inp = inp.Validate(func(val string) error {
			if required && strings.TrimSpace(val) == "" && def == "" {
				return errors.New("this field is required")
			}
			return nil
		})
		return inp, func(r *Result) {
			v := strings.TrimSpace(value)
			if v == "" {
				v = def
			}
			saveAnswer(q.ID, v, r)
		}
	}
}

// saveAnswer stores a single-valued answer in the result.
func saveAnswer(id, value string, r *Result) {
	switch id {
	case IDProvider:
		r.Provider = models.Provider(value)
	case IDOpenAIModel, IDAnthropicModel:
		r.Model = value
	case IDOpenAIKey:
		r.OpenAIKey = value
	case IDAnthropicKey:
		r.AnthropicKey = value
	case IDDescription:
		r.Description = value
	}
}

func saveMulti(id string, values []string, r *Result) {
	if id != IDTools {
		return
	}
	r.Tools = make([]models.ToolID, 0, len(values))
	for _, v := range values {
		r.Tools = append(r.Tools, models.ToolID(v))
	}
}

// Apply merges wizard answers into a copy of base. Empty keys keep the
// stored ones; provider none pins the template model.
func Apply(r *Result, base *models.GlobalConfig) *models.GlobalConfig {
	cfg := base.Clone()
	if r.Provider != "" {
		cfg.AIProvider = r.Provider
	}
	switch {
	case cfg.AIProvider == models.ProviderNone:
		cfg.AIModel = provider.TemplateModel
	case r.Model != "":
		cfg.AIModel = r.Model
	}
	if r.OpenAIKey != "" {
		cfg.OpenAIAPIKey = r.OpenAIKey
	}
	if r.AnthropicKey != "" {
		cfg.AnthropicAPIKey = r.AnthropicKey
	}
	if r.Tools != nil {
		cfg.EnabledTools = r.Tools
	}
	return &cfg
}

func optionLabel(o Option) string {
	if o.Desc != "" {
		return o.Label + " - " + o.Desc
	}
	return o.Label
}

// Brand colors shared with the rest of the CLI output.
const (
	ColorPrimary   = "#7C3AED"
	ColorSecondary = "#06B6D4"
	ColorSuccess   = "#22C55E"
	ColorError     = "#EF4444"
	ColorText      = "#F9FAFB"
	ColorMuted     = "#9CA3AF"
	ColorBorder    = "#4B5563"
)

func newWizardTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: ColorPrimary}
	secondary := lipgloss.AdaptiveColor{Light: "#0E7490", Dark: ColorSecondary}
	green := lipgloss.AdaptiveColor{Light: "#15803D", Dark: ColorSuccess}
	red := lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: ColorError}
	text := lipgloss.AdaptiveColor{Light: "#111827", Dark: ColorText}
	muted := lipgloss.AdaptiveColor{Light: "#4B5563", Dark: ColorMuted}
	border := lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: ColorBorder}

	t.Focused.Base = t.Focused.Base.BorderForeground(border)
	t.Focused.Card = t.Focused.Base
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	t.Focused.Option = t.Focused.Option.Foreground(text)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(primary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(green).SetString("◆ ")
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(text)
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(muted).SetString("◇ ")
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(secondary)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Card = t.Blurred.Base

	t.Group.Title = t.Focused.Title
	t.Group.Description = t.Focused.Description
	return t
}
