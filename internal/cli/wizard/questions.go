package wizard

import (
	"slices"

	"github.com/ai-rules/ai-rules-generator/internal/provider"
	"github.com/ai-rules/ai-rules-generator/internal/tools"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// KeyState describes the API keys already available, so the key questions
// can say whether leaving them empty is fine.
type KeyState struct {
	OpenAIStored    bool
	AnthropicStored bool
	OpenAIEnv       bool
	AnthropicEnv    bool
}

// SetupQuestions returns the global setup questions, prefilled from
// current:
// 1. AI provider
// 2. Model (one question per provider, shown conditionally)
// 3. API key for the selected provider
// 4. Enabled tools
func SetupQuestions(current *models.GlobalConfig, keys KeyState) []Question {
	providerOpts := make([]Option, 0, len(models.ValidProviders()))
	for _, p := range models.ValidProviders() {
		providerOpts = append(providerOpts, Option{Label: provider.DisplayName(p), Value: string(p)})
	}

	return []Question{
		{
			ID:          IDProvider,
			Type:        QuestionTypeSelect,
			Title:       "Select your AI provider",
			Description: "Used to tailor project rules. Template mode works offline.",
			// huh v0.8 hides options above the initial selection, so the
			// default always goes first.
			Options:  defaultFirst(providerOpts, string(current.AIProvider)),
			Default:  string(current.AIProvider),
			Required: true,
		},
		modelQuestion(IDOpenAIModel, models.ProviderOpenAI, current),
		modelQuestion(IDAnthropicModel, models.ProviderAnthropic, current),
		keyQuestion(IDOpenAIKey, models.ProviderOpenAI, "OPENAI_API_KEY", keys.OpenAIStored, keys.OpenAIEnv),
		keyQuestion(IDAnthropicKey, models.ProviderAnthropic, "ANTHROPIC_API_KEY", keys.AnthropicStored, keys.AnthropicEnv),
		toolsQuestion("Select the AI coding tools you use", current.EnabledTools),
	}
}

// GenerateQuestions returns the prompts of `generate --interactive`.
func GenerateQuestions(defaultDescription string, enabled []models.ToolID) []Question {
	return []Question{
		{
			ID:          IDDescription,
			Type:        QuestionTypeInput,
			Title:       "Describe the project in one line",
			Description: "Used in the project context section of every rule file.",
			Default:     defaultDescription,
		},
		toolsQuestion("Generate entry points for", enabled),
	}
}

func toolsQuestion(title string, enabled []models.ToolID) Question {
	opts := make([]Option, 0, len(tools.Catalog()))
	for _, t := range tools.Catalog() {
		opts = append(opts, Option{Label: t.Name, Value: string(t.ID), Desc: t.Paths()[0]})
	}
	selected := make([]string, 0, len(enabled))
	for _, t := range enabled {
		selected = append(selected, string(t))
	}
	return Question{
		ID:          IDTools,
		Type:        QuestionTypeMultiSelect,
		Title:       title,
		Description: "Entry point files are generated for each selected tool.",
		Options:     opts,
		Defaults:    selected,
	}
}

func modelQuestion(id string, p models.Provider, current *models.GlobalConfig) Question {
	def := provider.DefaultModel(p)
	if current.AIProvider == p && current.AIModel != "" {
		def = current.AIModel
	}

	var opts []Option
	for _, m := range provider.Models(p) {
		opts = append(opts, Option{Label: m, Value: m})
	}
	if !slices.ContainsFunc(opts, func(o Option) bool { return o.Value == def }) {
		opts = append(opts, Option{Label: def, Value: def, Desc: "current"})
	}

	return Question{
		ID:        id,
		Type:      QuestionTypeSelect,
		Title:     "Select the " + provider.DisplayName(p) + " model",
		Options:   defaultFirst(opts, def),
		Default:   def,
		Required:  true,
		Condition: providerIs(p),
	}
}

func keyQuestion(id string, p models.Provider, envVar string, stored, env bool) Question {
	desc := "Stored with owner-only permissions. Press Enter to skip; rules fall back to templates until a key is set."
	switch {
	case env:
		desc = envVar + " is set and takes precedence. Press Enter to skip."
	case stored:
		desc = "A key is already stored. Press Enter to keep it."
	}
	return Question{
		ID:          id,
		Type:        QuestionTypeSecret,
		Title:       "Enter your " + provider.DisplayName(p) + " API key",
		Description: desc,
		Condition:   providerIs(p),
	}
}

func providerIs(p models.Provider) func(*Result) bool {
	return func(r *Result) bool { return r.Provider == p }
}

// defaultFirst moves the option whose value is def to the front.
func defaultFirst(opts []Option, def string) []Option {
	i := slices.IndexFunc(opts, func(o Option) bool { return o.Value == def })
	if i <= 0 {
		return opts
	}
	out := make([]Option, 0, len(opts))
	out = append(out, opts[i])
	out = append(out, opts[:i]...)
	return append(out, opts[i+1:]...)
}
