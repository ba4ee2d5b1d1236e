// Package config loads the analysis settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Config represents the application configuration.
type Config struct {
	// Rule set location and reload behavior
	Rules RulesConfig `toml:"rules"`

	// Statistical thresholds
	Analysis AnalysisConfig `toml:"analysis"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// RulesConfig locates the archetype rule sets.
type RulesConfig struct {
	Dir           string `toml:"dir"`            // Root of the per-format rule directories
	DefaultFormat string `toml:"default_format"` // Format assumed when records omit one
	Watch         bool   `toml:"watch"`          // Reload rules on file changes
}

// AnalysisConfig contains the statistical knobs.
type AnalysisConfig struct {
	FallbackOverlap float64 `toml:"fallback_overlap"` // Minimum fallback card overlap (0-1)
	MinMatches      int     `toml:"min_matches"`      // Significance floor for matchups
	Confidence      float64 `toml:"confidence"`       // Wilson interval confidence level
}

// AppConfig contains general application settings.
type AppConfig struct {
	LogLevel string `toml:"log_level"` // zerolog level name
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			Dir:           "rules",
			DefaultFormat: "modern",
			Watch:         false,
		},
		Analysis: AnalysisConfig{
			FallbackOverlap: 0.10,
			MinMatches:      10,
			Confidence:      0.95,
		},
		App: AppConfig{
			LogLevel: "info",
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".deckwatch", "config.toml"), nil
}

// Load loads the configuration from path, falling back to the default
// location when path is empty. A missing file yields the default config.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Rules.Dir == "" {
		return fmt.Errorf("rules dir cannot be empty")
	}

	if c.Analysis.FallbackOverlap < 0 || c.Analysis.FallbackOverlap > 1 {
		return fmt.Errorf("fallback overlap %v outside [0, 1]", c.Analysis.FallbackOverlap)
	}

	if c.Analysis.Confidence <= 0 || c.Analysis.Confidence >= 1 {
		return fmt.Errorf("confidence %v outside (0, 1)", c.Analysis.Confidence)
	}

	if c.Analysis.MinMatches < 0 {
		return fmt.Errorf("min matches cannot be negative: %d", c.Analysis.MinMatches)
	}

	if _, err := zerolog.ParseLevel(c.App.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.App.LogLevel, err)
	}

	return nil
}
