// Package config loads the workspace shell configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes yaml values like "2s" or "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ModuleSettings controls one module's participation in the shell.
type ModuleSettings struct {
	Enabled bool `yaml:"enabled"`
	Order   int  `yaml:"order"`
}

// Config is the top-level shell configuration.
type Config struct {
	// Listen is the HTTP bind address for the shell API.
	Listen string `yaml:"listen"`

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// ProviderTimeout bounds each provider fan-out call. Zero disables
	// the bound.
	ProviderTimeout Duration `yaml:"provider_timeout"`

	// PostgresDSN is the connection string for the shared workspace
	// database used by the SQL-backed modules.
	PostgresDSN string `yaml:"postgres_dsn"`

	// RedisAddr is the address of the Redis instance backing chat state.
	RedisAddr string `yaml:"redis_addr"`

	// AssistantGatewayURL points at the AI gateway. Empty leaves the
	// assistant module registered but inactive.
	AssistantGatewayURL string `yaml:"assistant_gateway_url"`

	// Modules overrides per-module enablement and listing order.
	Modules map[string]*ModuleSettings `yaml:"modules"`
}

// Load reads config/atrium.yaml relative to the working directory.
func Load() (*Config, error) {
	return LoadFromPath(filepath.Join("config", "atrium.yaml"))
}

// LoadFromPath reads and validates the configuration at path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration or falls back to the compiled-in
// default when the file is absent.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate checks field-level constraints.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.ProviderTimeout < 0 {
		return fmt.Errorf("provider_timeout must not be negative")
	}
	for slug, m := range c.Modules {
		if m == nil {
			return fmt.Errorf("module %s: settings must not be empty", slug)
		}
	}
	return nil
}

// Module returns the settings for slug, falling back to the default for
// unknown slugs (enabled, order 0).
func (c *Config) Module(slug string) ModuleSettings {
	if m, ok := c.Modules[slug]; ok && m != nil {
		return *m
	}
	return ModuleSettings{Enabled: true}
}

// Default returns the default configuration with every shipped module
// enabled in its standard listing order.
func Default() *Config {
	return &Config{
		Listen:          ":8080",
		LogLevel:        "info",
		ProviderTimeout: Duration(2 * time.Second),
		Modules: map[string]*ModuleSettings{
			"dashboard": {Enabled: true, Order: 0},
			"files":     {Enabled: true, Order: 10},
			"mail":      {Enabled: true, Order: 20},
			"chat":      {Enabled: true, Order: 30},
			"calendar":  {Enabled: true, Order: 40},
			"assistant": {Enabled: true, Order: 50},
		},
	}
}
