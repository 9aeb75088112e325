// Package config loads runtime configuration from a YAML file and the
// environment. Environment variables use the SCOUT_ prefix with dots
// replaced by underscores, e.g. provider.api_key becomes
// SCOUT_PROVIDER_API_KEY.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Tools    ToolsConfig    `mapstructure:"tools"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// ProviderConfig stores completion provider details.
type ProviderConfig struct {
	Name        string        `mapstructure:"name"` // "openrouter", or a gollm provider ("openai", "anthropic", "ollama", ...)
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"` // openrouter only
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

// AgentConfig stores agent loop tunables.
type AgentConfig struct {
	MaxSteps         int `mapstructure:"max_steps"`
	ObservationLimit int `mapstructure:"observation_limit"`
}

// ToolsConfig stores per-tool settings.
type ToolsConfig struct {
	Search SearchConfig `mapstructure:"search"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
}

// SearchConfig stores web search backend settings.
type SearchConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Backends    []string `mapstructure:"backends"` // "duckduckgo", "brave"
	BraveAPIKey string   `mapstructure:"brave_api_key"`
	MaxResults  int      `mapstructure:"max_results"`
}

// FetchConfig stores page fetch settings.
type FetchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int           `mapstructure:"max_bytes"`
}

// StoreConfig stores research store settings.
type StoreConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Path      string  `mapstructure:"path"` // libsql database file
	Threshold float64 `mapstructure:"threshold"`
}

// ServerConfig stores HTTP server settings.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	AuthToken      string        `mapstructure:"auth_token"` // empty disables auth
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LogConfig stores logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load reads configuration from the given file, or from ./scout.yaml when
// configPath is empty. A missing config file is not an error; defaults and
// environment variables are used.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("scout")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("SCOUT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Provider defaults. Secrets default to empty so their environment
	// overrides are visible to Unmarshal.
	v.SetDefault("provider.name", "openrouter")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", "openai/gpt-4o-mini")
	v.SetDefault("provider.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("provider.max_tokens", 1024)
	v.SetDefault("provider.temperature", 0.2)
	v.SetDefault("provider.max_attempts", 3)
	v.SetDefault("provider.base_delay", "1s")

	// Agent defaults
	v.SetDefault("agent.max_steps", 10)
	v.SetDefault("agent.observation_limit", 8000)

	// Tool defaults
	v.SetDefault("tools.search.enabled", true)
	v.SetDefault("tools.search.backends", []string{"duckduckgo"})
	v.SetDefault("tools.search.brave_api_key", "")
	v.SetDefault("tools.search.max_results", 5)
	v.SetDefault("tools.fetch.enabled", true)
	v.SetDefault("tools.fetch.timeout", "15s")
	v.SetDefault("tools.fetch.max_bytes", 1<<20) // 1 MiB

	// Store defaults
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "scout.db")
	v.SetDefault("store.threshold", 0.6)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.auth_token", "")
	v.SetDefault("server.request_timeout", "60s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
