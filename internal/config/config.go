package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all roadtrip client configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Backend API
	API APIConfig `yaml:"api"`

	// Credential persistence
	Credentials CredentialConfig `yaml:"credentials"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the request transport.
type APIConfig struct {
	BaseDomain string `yaml:"base_domain"`
	// Empty means no client-side timeout; the transport default applies.
	Timeout string `yaml:"timeout"`
}

// CredentialConfig configures where the auth token lives.
type CredentialConfig struct {
	Backend string `yaml:"backend"` // memory, sqlite
	Path    string `yaml:"path"`    // sqlite database file
	Key     string `yaml:"key"`     // storage key of the token
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "roadtrip",
		Version: "0.3.0",

		API: APIConfig{
			BaseDomain: "http://localhost:8000",
		},

		Credentials: CredentialConfig{
			Backend: "sqlite",
			Path:    defaultTokenDB(),
			Key:     "token",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Dir:    "logs",
			Rotation: RotationConfig{
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 7,
			},
		},
	}
}

func defaultTokenDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".roadtrip", "storage.db")
	}
	return filepath.Join(home, ".roadtrip", "storage.db")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("ROADTRIP_API_URL"); url != "" {
		c.API.BaseDomain = url
	}
	if path := os.Getenv("ROADTRIP_TOKEN_DB"); path != "" {
		c.Credentials.Path = path
		c.Credentials.Backend = "sqlite"
	}
	if level := os.Getenv("ROADTRIP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if debug := os.Getenv("ROADTRIP_DEBUG"); debug != "" {
		if on, err := strconv.ParseBool(debug); err == nil {
			c.Logging.DebugMode = on
		}
	}
}

// GetTimeout returns the API timeout, or zero when none is configured.
func (c *Config) GetTimeout() time.Duration {
	if strings.TrimSpace(c.API.Timeout) == "" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ValidBackends lists the supported credential backends.
var ValidBackends = []string{"memory", "sqlite"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseDomain) == "" {
		return fmt.Errorf("API base domain not configured (set api.base_domain or ROADTRIP_API_URL)")
	}
	if !strings.HasPrefix(c.API.BaseDomain, "http://") && !strings.HasPrefix(c.API.BaseDomain, "https://") {
		return fmt.Errorf("invalid API base domain %q: must start with http:// or https://", c.API.BaseDomain)
	}

	validBackend := false
	for _, b := range ValidBackends {
		if c.Credentials.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid credential backend: %s (valid: %v)", c.Credentials.Backend, ValidBackends)
	}
	if c.Credentials.Backend == "sqlite" && c.Credentials.Path == "" {
		return fmt.Errorf("credential backend sqlite requires credentials.path")
	}

	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("invalid api.timeout %q: %w", c.API.Timeout, err)
		}
	}

	return nil
}
