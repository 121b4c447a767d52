package config

import (
	"strings"
	"time"
)

// defaultLoadTimeout bounds a single FIBEX model load.
const defaultLoadTimeout = 30 * time.Second

// GetDefaultConfig returns a Config populated entirely with default values.
func GetDefaultConfig() *Config {
	cfg := &Config{Model: ModelConfig{Strict: true}}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and
// environment variables to fill in any missing values with sensible
// defaults. Model.Strict is handled separately through viper.SetDefault
// (see setupViper) since a bool zero value cannot distinguish "omitted"
// from "explicitly false".
//
// Default Strategy:
//   - Zero values (0, "", nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyModelDefaults(&cfg.Model)
	applyRenderDefaults(&cfg.Render)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyModelDefaults sets FIBEX model-loading defaults.
func applyModelDefaults(cfg *ModelConfig) {
	// Mirrors the source's default for an omitted length-field-size
	// attribute on a dynamic array declaration (spec.md §9).
	if cfg.DefaultLengthFieldSize == 0 {
		cfg.DefaultLengthFieldSize = 32
	}

	if cfg.LoadTimeout == 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}
}

// applyRenderDefaults sets tree-rendering defaults.
func applyRenderDefaults(cfg *RenderConfig) {
	if cfg.Format == "" {
		cfg.Format = "tree"
	}
	if cfg.Indent <= 0 {
		cfg.Indent = 4
	}
}
