package defs

// Shared rules directory and the files composed into it.
const (
	// AIRulesDir is the shared rules directory every tool entrypoint references.
	AIRulesDir = ".ai-rules"

	// ProjectRulesMD is the main project rules document.
	ProjectRulesMD = "project-rules.md"

	// IndexMD is the index document enumerating the shared rules.
	IndexMD = "README.md"

	// LanguagePrefix, FrameworkPrefix and UniversalPrefix name category documents
	// as <prefix><tag>.md.
	LanguagePrefix  = "language-"
	FrameworkPrefix = "framework-"
	UniversalPrefix = "universal-"
)

// Global configuration locations.
const (
	// AppDirName is the per-user configuration directory name.
	AppDirName = "ai-rules-generator"

	// ConfigJSON is the global configuration file.
	ConfigJSON = "config.json"

	// DotEnv is the project-level environment file scanned for API keys.
	DotEnv = ".env"
)

// Environment variables recognized by the CLI.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvConfigDir       = "AI_RULES_CONFIG_DIR"
	EnvLogLevel        = "AI_RULES_LOG_LEVEL"
	EnvNoColor         = "AI_RULES_NO_COLOR"
)
