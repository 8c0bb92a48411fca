package config

import (
	"strings"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// Validate checks a configuration for correctness and returns
// *ValidationErrors listing every problem found.
func Validate(cfg *models.GlobalConfig) error {
	var errs []FieldError

	errs = append(errs, validateProvider(cfg)...)
	errs = append(errs, validateTools(cfg.EnabledTools)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func validateProvider(cfg *models.GlobalConfig) []FieldError {
	if !cfg.AIProvider.IsValid() {
		return []FieldError{{
			Field:  "ai_provider",
			Reason: "must be one of: " + strings.Join(providerStrings(), ", "),
			Value:  string(cfg.AIProvider),
			Err:    ErrInvalidProvider,
		}}
	}
	if cfg.AIProvider != models.ProviderNone && strings.TrimSpace(cfg.AIModel) == "" {
		return []FieldError{{
			Field:  "ai_model",
			Reason: "required when a provider is selected",
			Err:    ErrInvalidConfig,
		}}
	}
	return nil
}

func validateTools(tools []models.ToolID) []FieldError {
	var errs []FieldError
	seen := make(map[models.ToolID]bool, len(tools))
	for _, t := range tools {
		switch {
		case !t.IsValid():
			errs = append(errs, FieldError{
				Field:  "enabled_tools",
				Reason: "must be one of: " + strings.Join(toolStrings(), ", "),
				Value:  string(t),
				Err:    ErrInvalidTool,
			})
		case seen[t]:
			errs = append(errs, FieldError{
				Field:  "enabled_tools",
				Reason: "duplicate tool",
				Value:  string(t),
				Err:    ErrInvalidTool,
			})
		}
		seen[t] = true
	}
	return errs
}

func providerStrings() []string {
	ps := models.ValidProviders()
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func toolStrings() []string {
	ts := models.AllTools()
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
