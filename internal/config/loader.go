package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
	path   string
}

// NewLoader creates a new configuration loader. The YAML file named by TASKBOARD_CONFIG, if any,
// is read between the defaults and the environment.
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
		path:   os.Getenv("TASKBOARD_CONFIG"),
	}
}

// WithFile points the loader at a YAML file, replacing TASKBOARD_CONFIG.
func (l *Loader) WithFile(path string) *Loader {
	l.path = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML file
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if l.path != "" {
		if err := l.loadFile(l.path); err != nil {
			return nil, err
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func (l *Loader) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, l.config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	DBType       *string
	DBPath       *string
	DBDSN        *string
	DBMigrate    *bool
	Addr         *string
	Timezone     *string
	LogLevel     *string
	Timeout      *time.Duration
	CookieSecure *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.DBType != nil {
		config.Database.Type = *overrides.DBType
	}
	if overrides.DBPath != nil {
		config.Database.Path = *overrides.DBPath
	}
	if overrides.DBDSN != nil {
		config.Database.DSN = *overrides.DBDSN
	}
	if overrides.DBMigrate != nil {
		config.Database.Migrate = *overrides.DBMigrate
	}
	if overrides.Addr != nil {
		config.Server.Addr = *overrides.Addr
	}
	if overrides.Timezone != nil {
		config.Time.Timezone = *overrides.Timezone
	}
	if overrides.LogLevel != nil {
		config.Application.LogLevel = *overrides.LogLevel
	}
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.CookieSecure != nil {
		config.Server.CookieSecure = *overrides.CookieSecure
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}
