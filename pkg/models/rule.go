package models

// Category classifies a rule document in the shared rules directory.
type Category string

const (
	CategoryProject   Category = "project"
	CategoryLanguage  Category = "language"
	CategoryFramework Category = "framework"
	CategoryUniversal Category = "universal"
)

// RuleDocument is one generated Markdown file in the shared rules directory.
// FileName is relative to that directory. Documents are written once per run
// and overwritten in place by later runs.
type RuleDocument struct {
	Title        string   `json:"title"`
	BodyMarkdown string   `json:"body_markdown"`
	Category     Category `json:"category"`
	FileName     string   `json:"file_name"`
	Summary      string   `json:"summary,omitempty"`
}
