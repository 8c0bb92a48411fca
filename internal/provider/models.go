package provider

import "github.com/ai-rules/ai-rules-generator/pkg/models"

var catalog = map[models.Provider][]string{
	models.ProviderOpenAI: {
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
		"gpt-4",
		"gpt-3.5-turbo",
	},
	models.ProviderAnthropic: {
		"claude-3-5-sonnet-20241022",
		"claude-3-5-haiku-20241022",
		"claude-3-opus-20240229",
		"claude-3-sonnet-20240229",
		"claude-3-haiku-20240307",
	},
}

var defaults = map[models.Provider]string{
	models.ProviderOpenAI:    "gpt-4o-mini",
	models.ProviderAnthropic: "claude-3-5-sonnet-20241022",
}

// Models lists the suggested models for a provider. Any model string is
// accepted at request time; the list only feeds the setup wizard.
func Models(p models.Provider) []string {
	return append([]string(nil), catalog[p]...)
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(p models.Provider) string {
	return defaults[p]
}

var displayNames = map[models.Provider]string{
	models.ProviderOpenAI:    "OpenAI",
	models.ProviderAnthropic: "Anthropic Claude",
	models.ProviderNone:      "None (Template-based only)",
}

// TemplateModel is the model recorded when the provider is none.
const TemplateModel = "template"

// DisplayName returns the human name of a provider, or p when unknown.
func DisplayName(p models.Provider) string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return string(p)
}
