package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate keeps Load from reading a developer's real config or credentials.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DREAMCTL_COMPLETION_API_KEY", "")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("USER", "dreamer")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage != "markdown" {
		t.Errorf("storage = %q, want markdown", cfg.Storage)
	}
	if cfg.User != "dreamer" {
		t.Errorf("user = %q, want dreamer", cfg.User)
	}
	if cfg.Theme.Preset != "default-dark" {
		t.Errorf("expected preset 'default-dark', got %q", cfg.Theme.Preset)
	}
	c := cfg.Completion
	if c.Provider != "openrouter" || c.Model != "anthropic/claude-3.5-sonnet" {
		t.Errorf("completion provider/model = %q/%q", c.Provider, c.Model)
	}
	if c.MaxTokens != 1000 || c.Temperature != 0.7 {
		t.Errorf("max_tokens/temperature = %d/%v, want 1000/0.7", c.MaxTokens, c.Temperature)
	}
	if c.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", c.Timeout)
	}
	if c.APIKey != "" {
		t.Errorf("api key should be empty without env, got %q", c.APIKey)
	}
	if cfg.Firestore.Collection != "dreams" {
		t.Errorf("firestore collection = %q", cfg.Firestore.Collection)
	}
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
storage = "sqlite"
user = "ana"

[theme]
preset = "default-light"
primary = "#FF0000"
markdown_style = "light"

[completion]
provider = "gemini"
model = "gemini-2.5-pro"
timeout = "15s"
concurrency = 4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage != "sqlite" || cfg.User != "ana" {
		t.Errorf("storage/user = %q/%q", cfg.Storage, cfg.User)
	}
	if cfg.Theme.Preset != "default-light" || cfg.Theme.Primary != "#FF0000" || cfg.Theme.MarkdownStyle != "light" {
		t.Errorf("theme = %+v", cfg.Theme)
	}
	if cfg.Completion.Provider != "gemini" || cfg.Completion.Model != "gemini-2.5-pro" {
		t.Errorf("completion = %+v", cfg.Completion)
	}
	if cfg.Completion.Timeout != 15*time.Second || cfg.Completion.Concurrency != 4 {
		t.Errorf("timeout/concurrency = %v/%d", cfg.Completion.Timeout, cfg.Completion.Concurrency)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DREAMCTL_STORAGE", "memory")
	t.Setenv("DREAMCTL_COMPLETION_MODEL", "openai/gpt-4o-mini")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage != "memory" {
		t.Errorf("storage = %q, want memory", cfg.Storage)
	}
	if cfg.Completion.Model != "openai/gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Completion.Model)
	}
}

func TestLoadAPIKeyFallback(t *testing.T) {
	isolate(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-or-from-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Completion.APIKey != "sk-or-from-env" {
		t.Errorf("api key = %q, want value from OPENROUTER_API_KEY", cfg.Completion.APIKey)
	}

	t.Setenv("DREAMCTL_COMPLETION_API_KEY", "explicit")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Completion.APIKey != "explicit" {
		t.Errorf("explicit key should win, got %q", cfg.Completion.APIKey)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	tests := map[string]string{
		"storage":     `storage = "postgres"`,
		"timeout":     "[completion]\ntimeout = \"0s\"",
		"concurrency": "[completion]\nconcurrency = 0",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			if err == nil || !strings.Contains(err.Error(), name) {
				t.Errorf("expected error mentioning %q, got %v", name, err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
