package config

import (
	"github.com/ai-rules/ai-rules-generator/internal/provider"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// DefaultProvider is the provider of a fresh configuration.
const DefaultProvider = models.ProviderOpenAI

// DefaultTools are enabled when the configuration names none.
func DefaultTools() []models.ToolID {
	return []models.ToolID{models.ToolCursor, models.ToolClaudeCode}
}

// NewDefaultConfig returns the configuration used before setup has run.
func NewDefaultConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		AIProvider:   DefaultProvider,
		AIModel:      provider.DefaultModel(DefaultProvider),
		EnabledTools: DefaultTools(),
	}
}

// applyDefaults fills empty fields after a partial file was read.
func applyDefaults(cfg *models.GlobalConfig) {
	if cfg.AIProvider == "" {
		cfg.AIProvider = DefaultProvider
	}
	if cfg.AIModel == "" {
		if cfg.AIProvider == models.ProviderNone {
			cfg.AIModel = provider.TemplateModel
		} else {
			cfg.AIModel = provider.DefaultModel(cfg.AIProvider)
		}
	}
	if cfg.EnabledTools == nil {
		cfg.EnabledTools = DefaultTools()
	}
}
