package sqlstore

import (
	"context"

	"github.com/jmoiron/sqlx"

	"taskboard/internal/errors"
	"taskboard/internal/repository/sqlstore/migrations"
)

// connect opens and pings the database without touching the schema
func connect(ctx context.Context, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open(opts.Dialect.DriverName(), opts.DSN)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	if opts.Dialect == DialectSQLite {
		// A single connection keeps :memory: databases shared and avoids SQLITE_BUSY on writes
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, errors.NewDatabaseError("enable foreign keys", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, HandleDatabaseError("ping database", err)
	}

	return db, nil
}

// MigrateUp applies every pending migration and returns the versions recorded afterwards.
// Unlike Open it works on an empty database.
func MigrateUp(ctx context.Context, opts Options) ([]int, error) {
	if opts.Dialect == "" {
		opts.Dialect = DialectSQLite
	}
	db, err := connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrations.RunMigrations(ctx, db.DB, string(opts.Dialect)); err != nil {
		return nil, errors.NewDatabaseError("run migrations", err)
	}
	versions, err := migrations.AppliedVersions(ctx, db.DB)
	if err != nil {
		return nil, errors.NewDatabaseError("list migrations", err)
	}
	return versions, nil
}

// MigrateDown reverts the latest applied migration. It returns 0 when nothing was applied.
func MigrateDown(ctx context.Context, opts Options) (int, error) {
	if opts.Dialect == "" {
		opts.Dialect = DialectSQLite
	}
	db, err := connect(ctx, opts)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	version, err := migrations.Rollback(ctx, db.DB, string(opts.Dialect))
	if err != nil {
		return 0, errors.NewDatabaseError("rollback migration", err)
	}
	return version, nil
}
