package config

import (
	"context"
	"fmt"

	"taskboard/internal/repository/sqlstore"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment determines the environment from the application config, defaulting to production
func (c *Config) GetEnvironment() Environment {
	switch Environment(c.Application.Environment) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// CreateStore opens the store described by the configuration. The testing environment always
// gets a fresh in-memory SQLite database.
func CreateStore(ctx context.Context, config *Config) (*sqlstore.Store, error) {
	if config.GetEnvironment() == Testing {
		return CreateTestStore()
	}

	opts, err := StoreOptions(config)
	if err != nil {
		return nil, err
	}

	store, err := sqlstore.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// StoreOptions translates the database section into store options
func StoreOptions(config *Config) (sqlstore.Options, error) {
	dialect, err := sqlstore.ParseDialect(config.Database.Type)
	if err != nil {
		return sqlstore.Options{}, err
	}
	return sqlstore.Options{
		Dialect:      dialect,
		DSN:          config.DataSource(),
		Migrate:      config.Database.Migrate,
		QueryTimeout: config.Database.QueryTimeout,
	}, nil
}

// CreateTestStore creates an in-memory store for testing
func CreateTestStore() (*sqlstore.Store, error) {
	store, err := sqlstore.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return store, nil
}
