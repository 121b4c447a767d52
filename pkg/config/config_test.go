package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "INFO"

model:
  strict: false
  default_length_field_size: 16

render:
  format: table
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Model.Strict {
		t.Error("Expected explicit strict: false to be preserved")
	}
	if cfg.Model.DefaultLengthFieldSize != 16 {
		t.Errorf("Expected default_length_field_size 16, got %d", cfg.Model.DefaultLengthFieldSize)
	}
	if cfg.Render.Format != "table" {
		t.Errorf("Expected render format 'table', got %q", cfg.Render.Format)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}
	if !cfg.Model.Strict {
		t.Error("Expected default config to be strict")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	configContent := `
logging:
  level: INFO
  invalid yaml here [[[
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoad_StrictDefaultNotOverriddenByUnmarshal(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Config file omits model.strict entirely; it must default to true.
	if err := os.WriteFile(configPath, []byte("logging:\n  level: DEBUG\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.Model.Strict {
		t.Error("Expected model.strict to default to true when omitted")
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
	if !cfg.Model.Strict {
		t.Error("Expected default model.strict to be true")
	}
	if cfg.Model.DefaultLengthFieldSize != 32 {
		t.Errorf("Expected default length field size 32, got %d", cfg.Model.DefaultLengthFieldSize)
	}
	if cfg.Render.Format != "tree" {
		t.Errorf("Expected default render format 'tree', got %q", cfg.Render.Format)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected default config to validate, got: %v", err)
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("Expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected filename 'config.yaml', got %q", filepath.Base(path))
	}
}

func TestGetConfigDir(t *testing.T) {
	dir := GetConfigDir()

	if filepath.Base(dir) != "someipctl" {
		t.Errorf("Expected directory name 'someipctl', got %q", filepath.Base(dir))
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	_ = os.Setenv("SOMEIP_LOGGING_LEVEL", "ERROR")
	defer func() {
		_ = os.Unsetenv("SOMEIP_LOGGING_LEVEL")
	}()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "INFO"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level 'ERROR' from env var, got %q", cfg.Logging.Level)
	}
}
