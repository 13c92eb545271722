// Package config loads the application config and the per-show subject
// files from TOML, with environment variable substitution.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the root application configuration.
type Config struct {
	Library LibraryConfig `toml:"library"`
	Log     LogConfig     `toml:"log"`
	History HistoryConfig `toml:"history"`
}

// LibraryConfig lists the source roots whose subdirectories are shows.
type LibraryConfig struct {
	Sources []string `toml:"sources"`
	Force   []string `toml:"force"` // show directory names to regenerate
	Workers int      `toml:"workers"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

const (
	defaultWorkers   = 4
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(nil)
	return cfg
}

// Load reads, substitutes, decodes and validates the config at path.
// Missing environment variables and validation failures are reported
// together as a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and decodes the config at path, applying
// defaults but skipping Validate. Unresolved environment variables are
// still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults(&md)

	return &cfg, nil
}

func (c *Config) applyDefaults(md *toml.MetaData) {
	if c.Library.Workers == 0 {
		c.Library.Workers = defaultWorkers
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	if md == nil || !md.IsDefined("history", "enabled") {
		c.History.Enabled = true
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath()
	}
}
