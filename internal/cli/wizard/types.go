// Package wizard provides the interactive huh forms used by `ai-rules init`,
// `config edit` and `generate --interactive`.
package wizard

import (
	"errors"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// Question IDs.
const (
	IDProvider       = "provider"
	IDOpenAIModel    = "openai_model"
	IDAnthropicModel = "anthropic_model"
	IDOpenAIKey      = "openai_key"
	IDAnthropicKey   = "anthropic_key"
	IDTools          = "tools"
	IDDescription    = "description"
)

// Result holds the answers collected by a wizard run. Empty key fields mean
// "keep the current key".
type Result struct {
	Provider     models.Provider
	Model        string
	OpenAIKey    string
	AnthropicKey string
	Tools        []models.ToolID
	Description  string
}

// QuestionType represents the kind of form field.
type QuestionType int

const (
	// QuestionTypeSelect is a single-choice selection question.
	QuestionTypeSelect QuestionType = iota
	// QuestionTypeInput is a text input question.
	QuestionTypeInput
	// QuestionTypeSecret is a text input whose value is masked.
	QuestionTypeSecret
	// QuestionTypeMultiSelect is a multiple-choice question.
	QuestionTypeMultiSelect
)

// Question defines a single wizard question.
type Question struct {
	ID          string
	Type        QuestionType
	Title       string
	Description string
	Options     []Option
	Default     string
	// Defaults pre-selects options of a multi-select question.
	Defaults  []string
	Required  bool
	Condition func(*Result) bool
}

// Option represents a selectable option.
type Option struct {
	Label string
	Value string
	Desc  string
}

// Error definitions for the wizard package.
var (
	// ErrCancelled is returned when the user cancels the wizard.
	ErrCancelled = errors.New("wizard cancelled by user")
	// ErrNoQuestions is returned when no questions are provided.
	ErrNoQuestions = errors.New("no questions provided")
)
