package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/ai-rules/ai-rules-generator/internal/defs"
	"github.com/ai-rules/ai-rules-generator/internal/provider"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// Keys accepted by Set, matching the `config set` command.
const (
	KeyProvider     = "provider"
	KeyModel        = "model"
	KeyOpenAIKey    = "openai-key"
	KeyAnthropicKey = "anthropic-key"
	KeyEnabledTools = "enabled-tools"
)

// SettableKeys lists the keys accepted by Set.
func SettableKeys() []string {
	return []string{KeyProvider, KeyModel, KeyOpenAIKey, KeyAnthropicKey, KeyEnabledTools}
}

// DefaultDir returns the configuration directory. AI_RULES_CONFIG_DIR wins;
// otherwise the platform user configuration directory is used (APPDATA on
// Windows, ~/Library/Application Support on macOS, XDG_CONFIG_HOME or
// ~/.config elsewhere).
func DefaultDir() (string, error) {
	if dir := os.Getenv(defs.EnvConfigDir); dir != "" {
		return filepath.Clean(dir), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoConfigDir, err)
	}
	return filepath.Join(base, defs.AppDirName), nil
}

// Store reads and writes the global configuration file. The persisted
// values and the effective values (file plus environment API keys) are kept
// apart so environment keys are never written back to disk.
type Store struct {
	mu     sync.RWMutex
	dir    string
	file   *models.GlobalConfig
	exists bool
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir. Load must be called before Get.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{dir: filepath.Clean(dir), logger: logger}
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, defs.ConfigJSON)
}

// Exists reports whether the last Load found a configuration file.
func (s *Store) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exists
}

// Load reads the configuration file. A missing file yields the defaults; a
// file that is not valid JSON returns ErrMalformedFile. The returned value
// is the effective configuration.
func (s *Store) Load() (*models.GlobalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path()
	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("config file not found, using defaults", "path", path)
		s.file = NewDefaultConfig()
		s.exists = false
		return s.effectiveLocked(), nil
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFile, path, err)
	}

	cfg := &models.GlobalConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFile, path, err)
	}
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	s.file = cfg
	s.exists = true
	s.logger.Debug("config loaded", "path", path, "provider", cfg.AIProvider, "tools", len(cfg.EnabledTools))
	return s.effectiveLocked(), nil
}

// Get returns the effective configuration: file values with API keys from
// the environment taking precedence. Returns defaults before Load.
func (s *Store) Get() *models.GlobalConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effectiveLocked()
}

// File returns a copy of the values persisted in the configuration file.
func (s *Store) File() *models.GlobalConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.fileLocked().Clone()
	return &cfg
}

// KeySource reports where the effective key for p comes from: "env",
// "file" or "" when no key is available.
func (s *Store) KeySource(p models.Provider) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if envKey(p) != "" {
		return "env"
	}
	file := s.fileLocked()
	probe := models.GlobalConfig{
		AIProvider:      p,
		OpenAIAPIKey:    file.OpenAIAPIKey,
		AnthropicAPIKey: file.AnthropicAPIKey,
	}
	if probe.APIKey() != "" {
		return "file"
	}
	return ""
}

// Save validates cfg and writes it atomically with owner-only permissions.
// cfg becomes the new persisted configuration.
func (s *Store) Save(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil configuration", ErrInvalidConfig)
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := atomicWrite(s.Path(), data); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	saved := cfg.Clone()
	s.file = &saved
	s.exists = true
	s.logger.Debug("config saved", "path", s.Path())
	return nil
}

// Set updates one persisted value and saves the file. enabled-tools takes
// a comma separated list.
func (s *Store) Set(key, value string) error {
	cfg := s.File()
	value = strings.TrimSpace(value)

	switch key {
	case KeyProvider:
		p := models.Provider(value)
		if !p.IsValid() {
			return &ValidationErrors{Errors: []FieldError{{
				Field:  "ai_provider",
				Reason: "must be one of: " + strings.Join(providerStrings(), ", "),
				Value:  value,
				Err:    ErrInvalidProvider,
			}}}
		}
		SwitchProvider(cfg, p)
	case KeyModel:
		cfg.AIModel = value
	case KeyOpenAIKey:
		cfg.OpenAIAPIKey = value
	case KeyAnthropicKey:
		cfg.AnthropicAPIKey = value
	case KeyEnabledTools:
		cfg.EnabledTools = ParseTools(value)
	default:
		return fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(SettableKeys(), ", "))
	}
	return s.Save(cfg)
}

// Reset deletes the configuration file. The store falls back to defaults.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reset config: %w", err)
	}
	s.file = NewDefaultConfig()
	s.exists = false
	return nil
}

// SwitchProvider selects p and keeps the model consistent with it: the
// template model for none, the provider default when the current model
// belongs to another provider.
func SwitchProvider(cfg *models.GlobalConfig, p models.Provider) {
	cfg.AIProvider = p
	switch {
	case p == models.ProviderNone:
		cfg.AIModel = provider.TemplateModel
	case !modelBelongsTo(cfg.AIModel, p):
		cfg.AIModel = provider.DefaultModel(p)
	}
}

// ParseTools splits a comma separated tool list, dropping empty entries.
func ParseTools(value string) []models.ToolID {
	tools := []models.ToolID{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tools = append(tools, models.ToolID(part))
		}
	}
	return tools
}

func (s *Store) fileLocked() *models.GlobalConfig {
	if s.file == nil {
		return NewDefaultConfig()
	}
	return s.file
}

// effectiveLocked overlays environment API keys on the file values. Caller
// must hold at least RLock.
func (s *Store) effectiveLocked() *models.GlobalConfig {
	cfg := s.fileLocked().Clone()

	v := viper.New()
	v.SetDefault("openai_api_key", cfg.OpenAIAPIKey)
	v.SetDefault("anthropic_api_key", cfg.AnthropicAPIKey)
	_ = v.BindEnv("openai_api_key", defs.EnvOpenAIAPIKey)
	_ = v.BindEnv("anthropic_api_key", defs.EnvAnthropicAPIKey)

	cfg.OpenAIAPIKey = v.GetString("openai_api_key")
	cfg.AnthropicAPIKey = v.GetString("anthropic_api_key")
	return &cfg
}

func envKey(p models.Provider) string {
	switch p {
	case models.ProviderOpenAI:
		return os.Getenv(defs.EnvOpenAIAPIKey)
	case models.ProviderAnthropic:
		return os.Getenv(defs.EnvAnthropicAPIKey)
	}
	return ""
}

func modelBelongsTo(model string, p models.Provider) bool {
	for _, m := range provider.Models(p) {
		if m == model {
			return true
		}
	}
	return false
}

// atomicWrite writes data to a temp file in the same directory and renames
// it over path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
