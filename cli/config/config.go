// Package config handles CLI configuration loading and management.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers"
)

// Config represents the CLI configuration.
type Config struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty" toml:"default_provider,omitempty"`
	DefaultModel    string                    `yaml:"default_model,omitempty" toml:"default_model,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty" toml:"providers,omitempty"`
}

// ProviderConfig holds configuration for a specific provider.
type ProviderConfig struct {
	// APIKeyEnv names the environment variable holding the API key.
	// Empty means the provider's conventional variable.
	APIKeyEnv string `yaml:"api_key_env,omitempty" toml:"api_key_env,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	// Preset registers this entry as an alias of a built-in provider, e.g. a
	// self-hosted OpenAI-compatible gateway with preset "openai".
	Preset string `yaml:"preset,omitempty" toml:"preset,omitempty"`
}

// Format is a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the encoding from a file extension; anything other
// than .toml is YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.unify/config.yaml
// - Windows: %USERPROFILE%\.unify\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		// Fallback to current directory
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".unify", "config.yaml")
}

// LoadConfig loads configuration from the specified path.
// If the file doesn't exist, returns an empty config without error.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Providers: make(map[string]ProviderConfig),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing config file is not an error
			return cfg, nil
		}
		return nil, err
	}

	switch FormatForPath(path) {
	case FormatTOML:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// Ensure Providers map is initialized
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	return cfg, nil
}

// Marshal encodes the config in the given format.
func (c *Config) Marshal(format Format) ([]byte, error) {
	if format == FormatTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(c)
}

// Save writes the config to path, creating parent directories as needed.
// The encoding follows the file extension.
func (c *Config) Save(path string) error {
	data, err := c.Marshal(FormatForPath(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// GetProvider returns the provider config for the given ID.
// Returns nil if the provider is not configured.
func (c *Config) GetProvider(id string) *ProviderConfig {
	if c.Providers == nil {
		return nil
	}
	if pc, ok := c.Providers[id]; ok {
		return &pc
	}
	return nil
}

// Registry builds the adapter registry described by the config.
//
// Every catalog provider is registered; configured entries override its base
// URL and key variable, and entries with a preset are registered as aliases of
// that provider. defaults apply to every provider before per-entry values.
// The catalog gains the alias entries.
func (c *Config) Registry(catalog *providers.Catalog, defaults providers.Settings) (*core.Registry, error) {
	overrides := make(map[string]providers.Settings)
	for _, name := range catalog.List() {
		overrides[name] = defaults
	}

	for id, pc := range c.Providers {
		base := id
		if pc.Preset != "" {
			base = pc.Preset
		}
		factory := catalog.Get(base)
		if factory == nil {
			return nil, fmt.Errorf("provider %q: %w", id, core.UnsupportedProviderError(base, catalog.List()))
		}
		if base != id {
			catalog.Register(id, catalog.APIKeyEnv(base), factory)
		}

		s := defaults
		if pc.BaseURL != "" {
			s.BaseURL = pc.BaseURL
		}
		if pc.APIKeyEnv != "" {
			s.APIKey = os.Getenv(pc.APIKeyEnv)
		}
		overrides[id] = s
	}

	return catalog.Registry(overrides), nil
}
