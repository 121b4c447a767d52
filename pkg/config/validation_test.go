package config

import (
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_MissingLogOutput(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Output = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for missing log output")
	}
}

func TestValidate_InvalidLengthFieldSize(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Model.DefaultLengthFieldSize = 24

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for unsupported length field size")
	}
}

func TestValidate_NonPositiveLoadTimeout(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Model.LoadTimeout = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for non-positive load timeout")
	}
}

func TestValidate_InvalidRenderFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Render.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid render format")
	}
}

func TestValidate_NonPositiveIndent(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Render.Indent = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for non-positive indent")
	}
}

func TestValidate_LogLevelNormalization(t *testing.T) {
	// Validation accepts both uppercase and lowercase log levels.
	testCases := []string{"info", "INFO", "debug", "DEBUG", "warn", "WARN", "error", "ERROR"}

	for _, level := range testCases {
		cfg := GetDefaultConfig()
		cfg.Logging.Level = level

		err := Validate(cfg)
		if err != nil {
			t.Errorf("Validation failed for level %q: %v", level, err)
		}

		// Validation should NOT normalize - level should remain as-is
		if cfg.Logging.Level != level {
			t.Errorf("Expected level to remain %q after validation, got %q", level, cfg.Logging.Level)
		}
	}

	// Normalization happens in ApplyDefaults, not Validate.
	cfg := &Config{Logging: LoggingConfig{Level: "info"}}
	ApplyDefaults(cfg)
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected ApplyDefaults to normalize 'info' to 'INFO', got %q", cfg.Logging.Level)
	}
}
