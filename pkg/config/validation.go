package config

import (
	"fmt"
	"strings"
)

// Validate checks a Config for internally-consistent values after defaults
// have been applied.
//
// go-playground/validator is not used here: the teacher's own `validate:`
// struct tags are never actually invoked against a validator.New() call
// anywhere in its tree, so this module does not carry that dependency
// forward (see DESIGN.md). The checks below are the small, closed set this
// Config actually needs.
func Validate(cfg *Config) error {
	if err := validateLogging(&cfg.Logging); err != nil {
		return err
	}
	if err := validateRender(&cfg.Render); err != nil {
		return err
	}
	if cfg.Model.DefaultLengthFieldSize != 8 && cfg.Model.DefaultLengthFieldSize != 16 && cfg.Model.DefaultLengthFieldSize != 32 {
		return fmt.Errorf("model.default_length_field_size must be 8, 16, or 32 bits, got %d", cfg.Model.DefaultLengthFieldSize)
	}
	if cfg.Model.LoadTimeout <= 0 {
		return fmt.Errorf("model.load_timeout must be positive")
	}
	return nil
}

func validateLogging(cfg *LoggingConfig) error {
	switch strings.ToUpper(cfg.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("logging.level must be one of DEBUG, INFO, WARN, ERROR, got %q", cfg.Level)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", cfg.Format)
	}
	if cfg.Output == "" {
		return fmt.Errorf("logging.output is required")
	}
	return nil
}

func validateRender(cfg *RenderConfig) error {
	switch cfg.Format {
	case "tree", "table":
	default:
		return fmt.Errorf("render.format must be tree or table, got %q", cfg.Format)
	}
	if cfg.Indent <= 0 {
		return fmt.Errorf("render.indent must be positive, got %d", cfg.Indent)
	}
	return nil
}
