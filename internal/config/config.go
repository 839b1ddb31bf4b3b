// Package config holds process-wide configuration for salesiq. Config is
// loaded once at startup (file, then environment overrides) and injected
// into the components that need it; nothing here mutates mid-request.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all salesiq configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	LLM     LLMConfig     `yaml:"llm"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generation provider. The credential is loaded
// here at startup and handed to the client constructor exactly once.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, openai
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"` // empty means no client-side timeout
}

// StoreConfig configures the local sales database.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
	CSVPath      string `yaml:"csv_path"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "salesiq",
		Version: "0.3.0",

		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
		},
		Store: StoreConfig{
			DatabasePath: "data/sales.db",
			CSVPath:      "data/sales.csv",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file. GOOGLE_API_KEY
// is honored for parity with the original deployment; LLM_API_KEY is the
// provider-neutral spelling and takes precedence.
func (c *Config) applyEnvOverrides() {
	if v := envValue("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	} else if v := envValue("GOOGLE_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := envValue("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
	if v := envValue("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := envValue("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := envValue("SALESIQ_DB"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := envValue("SALESIQ_CSV"); v != "" {
		c.Store.CSVPath = v
	}
	if v := envValue("SALESIQ_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := envValue("SALESIQ_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// LLMTimeout parses the configured timeout; zero means no timeout.
func (c *Config) LLMTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.LLM.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
	}
	return d, nil
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
