package cli

import (
	"context"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/repository/sqlstore"
)

// MigrateOptions are the flags of the migrate command
type MigrateOptions struct {
	Rollback bool
}

// MigrateCommand applies or reverts schema migrations on the configured database
type MigrateCommand struct {
	app  *App
	opts *MigrateOptions
}

// NewMigrateCommand creates a new migrate command handler
func NewMigrateCommand(app *App, opts *MigrateOptions) *MigrateCommand {
	if opts == nil {
		opts = &MigrateOptions{}
	}
	return &MigrateCommand{app: app, opts: opts}
}

// Execute runs the migrate command
func (c *MigrateCommand) Execute(ctx context.Context, args []string) error {
	opts, err := config.StoreOptions(c.app.config)
	if err != nil {
		return err
	}
	log := logging.New("migrate")

	if c.opts.Rollback {
		version, err := sqlstore.MigrateDown(ctx, opts)
		if err != nil {
			return err
		}
		if version == 0 {
			fmt.Fprintln(c.app.out, "No migrations to roll back.")
			return nil
		}
		log.Info("rolled back migration", "version", version)
		fmt.Fprintf(c.app.out, "Rolled back migration %06d\n", version)
		return nil
	}

	versions, err := sqlstore.MigrateUp(ctx, opts)
	if err != nil {
		return err
	}
	logging.Debugln("migrate: applied versions", versions)
	latest := 0
	if len(versions) > 0 {
		latest = versions[len(versions)-1]
	}
	log.Info("migrations applied", "dialect", opts.Dialect, "version", latest)
	fmt.Fprintf(c.app.out, "Database is at migration %06d (%d applied)\n", latest, len(versions))
	return nil
}
