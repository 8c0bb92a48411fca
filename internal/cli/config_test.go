package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

func TestInit_NonInteractive(t *testing.T) {
	d := setupTestDeps(t)

	out, err := execute(t, "init", "--non-interactive", "--provider", "none", "--tools", "warp,janie")
	if err != nil {
		t.Fatalf("init error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration saved") {
		t.Errorf("output should confirm the save, got:\n%s", out)
	}

	cfg := d.Store.File()
	if cfg.AIProvider != models.ProviderNone || cfg.AIModel != "template" {
		t.Errorf("provider/model = %s/%s, want none/template", cfg.AIProvider, cfg.AIModel)
	}
	if got := cfg.EnabledTools; len(got) != 2 || got[0] != models.ToolWarp || got[1] != models.ToolJanie {
		t.Errorf("EnabledTools = %v, want [warp janie]", got)
	}
}

func TestInit_KeepsStoredKey(t *testing.T) {
	d := setupTestDeps(t)
	saveOpenAIConfig(t, d, models.ToolCursor)

	if out, err := execute(t, "init", "--non-interactive", "--model", "gpt-4o"); err != nil {
		t.Fatalf("init error = %v\n%s", err, out)
	}
	cfg := d.Store.File()
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q, want the stored key", cfg.OpenAIAPIKey)
	}
	if cfg.AIModel != "gpt-4o" {
		t.Errorf("AIModel = %q, want gpt-4o", cfg.AIModel)
	}
}

func TestInit_RecoversFromMalformedFile(t *testing.T) {
	d := setupTestDeps(t)
	if err := os.WriteFile(d.Store.Path(), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "init", "--non-interactive")
	if err != nil {
		t.Fatalf("init error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Starting from the default configuration") {
		t.Errorf("output should warn about the reset, got:\n%s", out)
	}
	if _, err := d.Store.Load(); err != nil {
		t.Errorf("config should be valid after init: %v", err)
	}
}

func TestInit_InvalidFlags(t *testing.T) {
	setupTestDeps(t)

	if _, err := execute(t, "init", "--non-interactive", "--provider", "gemini"); err == nil || !strings.Contains(err.Error(), "invalid --provider") {
		t.Errorf("error = %v, want invalid --provider", err)
	}
	if _, err := execute(t, "init", "--non-interactive", "--tools", "vim"); err == nil || !strings.Contains(err.Error(), "invalid --tools") {
		t.Errorf("error = %v, want invalid --tools", err)
	}
}

func TestConfigShow(t *testing.T) {
	d := setupTestDeps(t)

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"No configuration found", "OpenAI (openai)", "gpt-4o-mini", "Not set", "Cursor, Claude Code", d.Store.Path()} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}

	saveOpenAIConfig(t, d, models.ToolWarp)
	out, err = execute(t, "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if strings.Contains(out, "sk-test") {
		t.Errorf("keys should be masked, got:\n%s", out)
	}
	if !strings.Contains(out, "***") {
		t.Errorf("masked key should be shown, got:\n%s", out)
	}

	out, err = execute(t, "config", "show", "--show-keys")
	if err != nil {
		t.Fatalf("config show --show-keys error = %v", err)
	}
	if !strings.Contains(out, "sk-test") {
		t.Errorf("--show-keys should print the key, got:\n%s", out)
	}
}

func TestConfigShow_EnvKey(t *testing.T) {
	setupTestDeps(t)
	t.Setenv("OPENAI_API_KEY", "sk-from-environment")

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "(environment)") {
		t.Errorf("env key should be labeled, got:\n%s", out)
	}
}

func TestConfigSet(t *testing.T) {
	d := setupTestDeps(t)

	out, err := execute(t, "config", "set", "provider", "anthropic")
	if err != nil {
		t.Fatalf("config set provider error = %v", err)
	}
	if !strings.Contains(out, "provider = anthropic") {
		t.Errorf("output = %q", out)
	}
	if cfg := d.Store.File(); cfg.AIModel != "claude-3-5-sonnet-20241022" {
		t.Errorf("model after provider switch = %q", cfg.AIModel)
	}

	out, err = execute(t, "config", "set", "anthropic-key", "sk-ant-secret-value")
	if err != nil {
		t.Fatalf("config set key error = %v", err)
	}
	if strings.Contains(out, "sk-ant-secret-value") {
		t.Errorf("set should mask keys, got %q", out)
	}

	if _, err := execute(t, "config", "set", "color", "blue"); err == nil {
		t.Error("unknown key should fail")
	}
	if _, err := execute(t, "config", "set", "enabled-tools", "cursor,nano"); err == nil {
		t.Error("invalid tool should fail")
	}
	if _, err := execute(t, "config", "set", "provider"); err == nil {
		t.Error("missing value should fail")
	}
}

func TestConfigReset(t *testing.T) {
	d := setupTestDeps(t)

	out, err := execute(t, "config", "reset", "--yes")
	if err != nil {
		t.Fatalf("reset without a file error = %v", err)
	}
	if !strings.Contains(out, "Already using defaults") {
		t.Errorf("output = %q", out)
	}

	saveOpenAIConfig(t, d, models.ToolWarp)
	if _, err := execute(t, "config", "reset"); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("headless reset without --yes: error = %v", err)
	}
	if _, err := os.Stat(d.Store.Path()); err != nil {
		t.Fatalf("file should survive a refused reset: %v", err)
	}

	out, err = execute(t, "config", "reset", "-y")
	if err != nil {
		t.Fatalf("reset error = %v", err)
	}
	if !strings.Contains(out, "Configuration reset to defaults") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(d.Store.Path()); !os.IsNotExist(err) {
		t.Errorf("config file should be removed, stat error = %v", err)
	}
}

func TestConfigReset_InteractiveDefaultKeepsFile(t *testing.T) {
	d := setupTestDeps(t)
	saveOpenAIConfig(t, d, models.ToolWarp)
	calls := answerDefaults(d)

	out, err := execute(t, "config", "reset")
	if err != nil {
		t.Fatalf("reset error = %v", err)
	}
	if len(*calls) != 1 || (*calls)[0].def {
		t.Errorf("prompts = %v, want one question defaulting to no", *calls)
	}
	if !strings.Contains(out, "Reset cancelled") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(d.Store.Path()); err != nil {
		t.Errorf("config file should survive: %v", err)
	}
}

func TestConfigEdit_RequiresTerminal(t *testing.T) {
	setupTestDeps(t)

	if _, err := execute(t, "config", "edit"); err == nil || !strings.Contains(err.Error(), "interactive terminal") {
		t.Errorf("error = %v, want interactive terminal requirement", err)
	}
}

func TestConfigPath(t *testing.T) {
	d := setupTestDeps(t)

	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if strings.TrimSpace(out) != d.Store.Path() {
		t.Errorf("output = %q, want %q", out, d.Store.Path())
	}
}
