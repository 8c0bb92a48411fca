package models

import "slices"

// Provider selects the AI backend used for AI-mode rule generation.
type Provider string

const (
	// ProviderOpenAI uses the OpenAI chat completions API.
	ProviderOpenAI Provider = "openai"

	// ProviderAnthropic uses the Anthropic messages API.
	ProviderAnthropic Provider = "anthropic"

	// ProviderNone disables AI generation; rules are template-based only.
	ProviderNone Provider = "none"
)

// ValidProviders returns all valid provider values.
func ValidProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderNone}
}

// IsValid checks if the provider is a valid value.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderNone:
		return true
	}
	return false
}

// ToolID identifies a supported AI coding tool.
type ToolID string

const (
	ToolCursor     ToolID = "cursor"
	ToolClaudeCode ToolID = "claude-code"
	ToolWindsurf   ToolID = "windsurf"
	ToolCopilot    ToolID = "copilot"
	ToolWarp       ToolID = "warp"
	ToolJanie      ToolID = "janie"
)

// AllTools returns every supported tool in display order.
func AllTools() []ToolID {
	return []ToolID{ToolCursor, ToolClaudeCode, ToolWindsurf, ToolCopilot, ToolWarp, ToolJanie}
}

// IsValid checks if the tool id belongs to the catalog.
func (t ToolID) IsValid() bool {
	return slices.Contains(AllTools(), t)
}

// GlobalConfig is the user-level configuration persisted in config.json.
// API keys are optional; environment variables take precedence over them.
type GlobalConfig struct {
	AIProvider      Provider `json:"ai_provider" mapstructure:"ai_provider"`
	AIModel         string   `json:"ai_model" mapstructure:"ai_model"`
	OpenAIAPIKey    string   `json:"openai_api_key,omitempty" mapstructure:"openai_api_key"`
	AnthropicAPIKey string   `json:"anthropic_api_key,omitempty" mapstructure:"anthropic_api_key"`
	EnabledTools    []ToolID `json:"enabled_tools" mapstructure:"enabled_tools"`
}

// APIKey returns the key configured for the selected provider.
func (c *GlobalConfig) APIKey() string {
	switch c.AIProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	}
	return ""
}

// ToolEnabled reports whether the given tool is enabled.
func (c *GlobalConfig) ToolEnabled(id ToolID) bool {
	return slices.Contains(c.EnabledTools, id)
}

// AIEnabled reports whether a provider other than none is selected.
func (c *GlobalConfig) AIEnabled() bool {
	return c.AIProvider != "" && c.AIProvider != ProviderNone
}

// Clone returns a deep copy of the configuration.
func (c GlobalConfig) Clone() GlobalConfig {
	c.EnabledTools = slices.Clone(c.EnabledTools)
	return c
}
