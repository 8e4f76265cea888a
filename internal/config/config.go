// Package config loads and persists project configuration from
// .ubd/config.json, plus per-directory rc-file overrides.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	uerr "ubd/internal/errors"
	"ubd/internal/rule"
)

// CurrentVersion is the config schema version this build reads and writes.
const CurrentVersion = 1

// Config represents the complete ubd project configuration.
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Rule    RuleConfig    `json:"rule" mapstructure:"rule"`
	Files   FilesConfig   `json:"files" mapstructure:"files"`
	Cache   CacheConfig   `json:"cache" mapstructure:"cache"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// RuleConfig selects which binding categories the check forbids.
// Unset fields fall back to the built-in defaults (all forbidden).
type RuleConfig struct {
	Functions *bool `json:"functions,omitempty" mapstructure:"functions"`
	Classes   *bool `json:"classes,omitempty" mapstructure:"classes"`
	Variables *bool `json:"variables,omitempty" mapstructure:"variables"`
	Typedefs  *bool `json:"typedefs,omitempty" mapstructure:"typedefs"`
}

// FilesConfig controls which files a repo-wide run visits.
type FilesConfig struct {
	Include []string `json:"include" mapstructure:"include"`
	Ignore  []string `json:"ignore" mapstructure:"ignore"`
}

// CacheConfig contains results-cache configuration.
type CacheConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentVersion,
		RepoRoot: ".",
		Rule:     RuleConfig{},
		Files: FilesConfig{
			Include: []string{"**/*.js", "**/*.mjs", "**/*.cjs", "**/*.jsx", "**/*.ts", "**/*.mts", "**/*.cts", "**/*.tsx"},
			Ignore:  []string{"node_modules", "dist", "build", "vendor"},
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    ".ubd/cache.db",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .ubd/config.json under repoRoot.
// A missing config file yields the defaults.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", CurrentVersion)
	v.SetDefault("repoRoot", ".")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", ".ubd/cache.db")
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".ubd"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, uerr.New(uerr.ConfigInvalid, "failed to read project config", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, uerr.New(uerr.ConfigInvalid, "failed to parse project config", err)
	}

	if len(cfg.Files.Include) == 0 {
		cfg.Files.Include = DefaultConfig().Files.Include
	}

	return &cfg, nil
}

// Save writes the configuration to .ubd/config.json under repoRoot,
// creating the .ubd directory if needed.
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".ubd")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return uerr.New(uerr.ConfigInvalid, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return uerr.New(uerr.ConfigInvalid, "unsupported config version", nil)
	}
	switch c.Logging.Format {
	case "", "human", "json":
	default:
		return uerr.New(uerr.ConfigInvalid, "logging.format must be human or json", nil)
	}
	return nil
}

// Policy resolves the effective rule policy: built-in defaults with the
// project config's overrides applied.
func (c *Config) Policy() rule.Policy {
	ov := rule.Overrides{
		Functions: c.Rule.Functions,
		Classes:   c.Rule.Classes,
		Variables: c.Rule.Variables,
		Typedefs:  c.Rule.Typedefs,
	}
	return ov.Policy()
}
