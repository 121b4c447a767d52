package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the someipctl configuration.
//
// This is a pure, synchronous codec library with a CLI front end: there is no
// network listener, database, or session state to configure. The surface
// here covers logging, FIBEX model loading behavior, and tree rendering.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (SOMEIP_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Model controls FIBEX model loading behavior
	Model ModelConfig `mapstructure:"model" yaml:"model"`

	// Render controls codec-tree rendering behavior
	Render RenderConfig `mapstructure:"render" yaml:"render"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" yaml:"level"`

	// Format specifies the log output format.
	// Valid values: text, json
	Format string `mapstructure:"format" yaml:"format"`

	// Output specifies where logs are written.
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" yaml:"output"`
}

// ModelConfig controls how FIBEX documents are loaded and resolved.
type ModelConfig struct {
	// Strict rejects unresolved id-refs and dangling coding references
	// instead of logging and continuing (spec.md §4.9, §7).
	// Default: true
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// SearchPaths are directories searched for a FIBEX document referenced
	// by a bare filename on the CLI (someipctl load services.xml).
	SearchPaths []string `mapstructure:"search_paths" yaml:"search_paths"`

	// DefaultLengthFieldSize is a length-field width in bits (8, 16, or 32).
	// It is validated and defaulted here, but the FIBEX loader and the codec
	// builder do not read it. Default: 32.
	DefaultLengthFieldSize uint8 `mapstructure:"default_length_field_size" yaml:"default_length_field_size"`

	// LoadTimeout must be positive and defaults to 30s. Model loading does
	// not read it, so it places no bound on how long a load takes.
	LoadTimeout time.Duration `mapstructure:"load_timeout" yaml:"load_timeout"`
}

// RenderConfig holds rendering settings for codec trees. They are validated
// and defaulted here; som.Render and the CLI commands do not read them.
type RenderConfig struct {
	// Format names a tree rendering style.
	// Valid values: "tree" (som2text-style nested braces), "table"
	Format string `mapstructure:"format" yaml:"format"`

	// Indent is a number of spaces per nesting level; it must be positive.
	Indent int `mapstructure:"indent" yaml:"indent"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SOMEIP_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	configFileFound, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	if !configFileFound {
		cfg := GetDefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages when no config
// file exists at the requested or default location.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			cfg := GetDefaultConfig()
			return cfg, nil
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file, or omit --config to use defaults",
			configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the specified file path in YAML.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the SOMEIP_ prefix.
	// Example: SOMEIP_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("SOMEIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Strict model loading is opt-out, not opt-in: set the default through
	// viper (rather than post-unmarshal zero-value coercion) so an explicit
	// "strict: false" in the config file or SOMEIP_MODEL_STRICT=false is
	// never silently overridden.
	v.SetDefault("model.strict", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
	)
}

// durationDecodeHook returns a mapstructure decode hook that converts strings
// to time.Duration. This enables config files to use human-readable
// durations like "30s", "5m", "1h".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "someipctl")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "someipctl")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	path := GetDefaultConfigPath()
	_, err := os.Stat(path)
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for the
// someipctl config command).
func GetConfigDir() string {
	return getConfigDir()
}
