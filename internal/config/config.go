package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ThemeConfig holds TUI color overrides on top of a named preset.
type ThemeConfig struct {
	Preset        string `mapstructure:"preset"`
	Primary       string `mapstructure:"primary"`
	Secondary     string `mapstructure:"secondary"`
	Accent        string `mapstructure:"accent"`
	Muted         string `mapstructure:"muted"`
	Danger        string `mapstructure:"danger"`
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// CompletionConfig selects the model that interprets dreams.
type CompletionConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Concurrency int           `mapstructure:"concurrency"`
}

// FirestoreConfig locates the remote document store.
type FirestoreConfig struct {
	ProjectID  string `mapstructure:"project_id"`
	Collection string `mapstructure:"collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config holds the application configuration.
type Config struct {
	Storage    string           `mapstructure:"storage"`
	DataDir    string           `mapstructure:"data_dir"`
	User       string           `mapstructure:"user"`
	Editor     string           `mapstructure:"editor"`
	MaxWidth   int              `mapstructure:"max_width"`
	LogLevel   string           `mapstructure:"log_level"`
	LogFormat  string           `mapstructure:"log_format"`
	Theme      ThemeConfig      `mapstructure:"theme"`
	Completion CompletionConfig `mapstructure:"completion"`
	Firestore  FirestoreConfig  `mapstructure:"firestore"`
	Server     ServerConfig     `mapstructure:"server"`
}

// Storage backends accepted by the storage key.
var storageBackends = []string{"markdown", "sqlite", "memory", "firestore"}

// Provider-specific environment variables consulted when completion.api_key
// is unset.
var apiKeyEnv = map[string]string{
	"openrouter": "OPENROUTER_API_KEY",
	"gemini":     "GEMINI_API_KEY",
}

// DefaultDataDir returns the default data directory (~/.dreamctl/).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".dreamctl")
	}
	return filepath.Join(home, ".dreamctl")
}

// DefaultUser returns the local account name, used as the owner of dreams
// recorded from the command line.
func DefaultUser() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(key); u != "" {
			return u
		}
	}
	return "local"
}

// Load reads configuration from file, environment variables, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("storage", "markdown")
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("user", DefaultUser())
	v.SetDefault("editor", "")
	v.SetDefault("max_width", 100)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("theme.preset", "default-dark")
	v.SetDefault("theme.markdown_style", "")
	v.SetDefault("completion.provider", "openrouter")
	v.SetDefault("completion.model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("completion.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.timeout", "60s")
	v.SetDefault("completion.max_tokens", 1000)
	v.SetDefault("completion.temperature", 0.7)
	v.SetDefault("completion.concurrency", 2)
	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.collection", "dreams")
	v.SetDefault("server.addr", "127.0.0.1:8080")

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// XDG support
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "dreamctl"))
		}
		v.AddConfigPath(DefaultDataDir())
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	// Environment variables: DREAMCTL_STORAGE, DREAMCTL_COMPLETION_API_KEY, etc.
	v.SetEnvPrefix("DREAMCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && configPath != "" {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if cfg.Completion.APIKey == "" {
		if env, ok := apiKeyEnv[strings.ToLower(cfg.Completion.Provider)]; ok {
			cfg.Completion.APIKey = os.Getenv(env)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	valid := false
	for _, b := range storageBackends {
		if c.Storage == b {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid storage backend %q (valid: %s)", c.Storage, strings.Join(storageBackends, ", "))
	}
	if strings.TrimSpace(c.User) == "" {
		return fmt.Errorf("user must not be empty")
	}
	if c.Completion.Timeout <= 0 {
		return fmt.Errorf("completion.timeout must be positive, got %s", c.Completion.Timeout)
	}
	if c.Completion.Concurrency < 1 {
		return fmt.Errorf("completion.concurrency must be at least 1, got %d", c.Completion.Concurrency)
	}
	return nil
}
