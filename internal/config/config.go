package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration options for the taskboard application
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Server      ServerConfig      `yaml:"server"`
	Validation  ValidationConfig  `yaml:"validation"`
	Time        TimeConfig        `yaml:"time"`
	Application ApplicationConfig `yaml:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Type         string        `yaml:"type" env:"TASKBOARD_DB_TYPE"`
	Path         string        `yaml:"path" env:"TASKBOARD_DB_PATH"`
	DSN          string        `yaml:"dsn" env:"TASKBOARD_DB_DSN"`
	QueryTimeout time.Duration `yaml:"query_timeout" env:"TASKBOARD_DB_QUERY_TIMEOUT"`
	Migrate      bool          `yaml:"migrate" env:"TASKBOARD_DB_MIGRATE"`
}

// ServerConfig holds HTTP listener and session configuration
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"TASKBOARD_ADDR"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"TASKBOARD_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"TASKBOARD_WRITE_TIMEOUT"`
	SessionTTL   time.Duration `yaml:"session_ttl" env:"TASKBOARD_SESSION_TTL"`
	CookieName   string        `yaml:"cookie_name" env:"TASKBOARD_COOKIE_NAME"`
	CookieSecure bool          `yaml:"cookie_secure" env:"TASKBOARD_COOKIE_SECURE"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength    int `yaml:"title_max_length" env:"TASKBOARD_TITLE_MAX"`
	UsernameMinLength int `yaml:"username_min_length" env:"TASKBOARD_USERNAME_MIN"`
	UsernameMaxLength int `yaml:"username_max_length" env:"TASKBOARD_USERNAME_MAX"`
	PasswordMinLength int `yaml:"password_min_length" env:"TASKBOARD_PASSWORD_MIN"`
}

// TimeConfig holds the zone used for naive stored timestamps and calendar-day comparisons
type TimeConfig struct {
	Timezone string `yaml:"timezone" env:"TASKBOARD_TIMEZONE"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Environment string        `yaml:"environment" env:"TASKBOARD_ENV"`
	LogLevel    string        `yaml:"log_level" env:"TASKBOARD_LOG_LEVEL"`
	Timeout     time.Duration `yaml:"timeout" env:"TASKBOARD_APP_TIMEOUT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type:         "sqlite",
			Path:         "taskboard.db",
			QueryTimeout: 10 * time.Second,
			Migrate:      true,
		},
		Server: ServerConfig{
			Addr:         ":8000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			SessionTTL:   24 * time.Hour,
			CookieName:   "taskboard_session",
		},
		Validation: ValidationConfig{
			TitleMaxLength:    255,
			UsernameMinLength: 3,
			UsernameMaxLength: 80,
			PasswordMinLength: 6,
		},
		Time: TimeConfig{
			Timezone: "Local",
		},
		Application: ApplicationConfig{
			Environment: "production",
			LogLevel:    "info",
			Timeout:     60 * time.Second,
		},
	}
}

// DataSource returns the driver connection string for the configured database type
func (c *Config) DataSource() string {
	if c.Database.Type == "postgres" {
		return c.Database.DSN
	}
	return c.Database.Path
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Time.Timezone)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if v := os.Getenv("TASKBOARD_DB_TYPE"); v != "" {
		c.Database.Type = v
	}
	if v := os.Getenv("TASKBOARD_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("TASKBOARD_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	c.Database.QueryTimeout = ParseDurationWithFallback(os.Getenv("TASKBOARD_DB_QUERY_TIMEOUT"), c.Database.QueryTimeout)
	c.Database.Migrate = ParseBoolWithFallback(os.Getenv("TASKBOARD_DB_MIGRATE"), c.Database.Migrate)

	// Server configuration
	if v := os.Getenv("TASKBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	c.Server.ReadTimeout = ParseDurationWithFallback(os.Getenv("TASKBOARD_READ_TIMEOUT"), c.Server.ReadTimeout)
	c.Server.WriteTimeout = ParseDurationWithFallback(os.Getenv("TASKBOARD_WRITE_TIMEOUT"), c.Server.WriteTimeout)
	c.Server.SessionTTL = ParseDurationWithFallback(os.Getenv("TASKBOARD_SESSION_TTL"), c.Server.SessionTTL)
	if v := os.Getenv("TASKBOARD_COOKIE_NAME"); v != "" {
		c.Server.CookieName = v
	}
	c.Server.CookieSecure = ParseBoolWithFallback(os.Getenv("TASKBOARD_COOKIE_SECURE"), c.Server.CookieSecure)

	// Validation configuration
	c.Validation.TitleMaxLength = ParseIntWithFallback(os.Getenv("TASKBOARD_TITLE_MAX"), c.Validation.TitleMaxLength)
	c.Validation.UsernameMinLength = ParseIntWithFallback(os.Getenv("TASKBOARD_USERNAME_MIN"), c.Validation.UsernameMinLength)
	c.Validation.UsernameMaxLength = ParseIntWithFallback(os.Getenv("TASKBOARD_USERNAME_MAX"), c.Validation.UsernameMaxLength)
	c.Validation.PasswordMinLength = ParseIntWithFallback(os.Getenv("TASKBOARD_PASSWORD_MIN"), c.Validation.PasswordMinLength)

	if v := os.Getenv("TASKBOARD_TIMEZONE"); v != "" {
		c.Time.Timezone = v
	}

	// Application configuration
	if v := os.Getenv("TASKBOARD_ENV"); v != "" {
		c.Application.Environment = v
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		c.Application.LogLevel = v
	}
	c.Application.Timeout = ParseDurationWithFallback(os.Getenv("TASKBOARD_APP_TIMEOUT"), c.Application.Timeout)

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "sqlite":
		if c.Database.Path == "" {
			return &ConfigError{Field: "database.path", Message: "sqlite database path cannot be empty"}
		}
	case "postgres":
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "postgres dsn cannot be empty"}
		}
	default:
		return &ConfigError{Field: "database.type", Message: "database type must be sqlite or postgres"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}

	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.timeouts", Message: "read and write timeouts must be positive"}
	}
	if c.Server.SessionTTL <= 0 {
		return &ConfigError{Field: "server.session_ttl", Message: "session ttl must be positive"}
	}
	if c.Server.CookieName == "" {
		return &ConfigError{Field: "server.cookie_name", Message: "cookie name cannot be empty"}
	}

	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}
	if c.Validation.UsernameMinLength < 1 {
		return &ConfigError{Field: "validation.username_min_length", Message: "username minimum length must be at least 1"}
	}
	if c.Validation.UsernameMaxLength < c.Validation.UsernameMinLength {
		return &ConfigError{Field: "validation.username_max_length", Message: "username maximum length must not be below the minimum"}
	}
	if c.Validation.PasswordMinLength < 1 {
		return &ConfigError{Field: "validation.password_min_length", Message: "password minimum length must be at least 1"}
	}

	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "time.timezone", Message: "unknown timezone " + strconv.Quote(c.Time.Timezone)}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
