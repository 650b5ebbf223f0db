package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd      *cobra.Command
	loader   *config.Loader
	config   *config.Config
	app      *App
	registry *CommandRegistry
	logOut   io.Writer

	board   BoardOptions
	stats   StatsOptions
	migrate MigrateOptions
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader) *RootCommand {
	if loader == nil {
		loader = config.NewLoader()
	}
	root := &RootCommand{
		loader:   loader,
		registry: NewCommandRegistry(),
		logOut:   os.Stderr,
	}

	root.cmd = &cobra.Command{
		Use:   "taskboard",
		Short: "A multi-user kanban task board",
		Long: `Taskboard serves a multi-user kanban board over HTTP and inspects boards from the command line.

EXAMPLES:
  taskboard serve                                  # Serve the JSON API on :8000
  taskboard migrate                                # Apply pending schema migrations
  taskboard migrate --rollback                     # Revert the latest migration
  taskboard board --user alice                     # Print alice's board grouped by category
  taskboard board --user alice --status overdue    # Only overdue tasks
  taskboard board --user alice --format csv        # Export the filtered board as CSV
  taskboard stats --user alice                     # Due-date statistics

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file (TASKBOARD_CONFIG or --config) > defaults

    TASKBOARD_DB_TYPE                      sqlite or postgres (default: sqlite)
    TASKBOARD_DB_PATH                      SQLite database file (default: taskboard.db)
    TASKBOARD_DB_DSN                       PostgreSQL connection string
    TASKBOARD_DB_MIGRATE                   Run migrations on startup (default: true)
    TASKBOARD_ADDR                         Listen address (default: :8000)
    TASKBOARD_SESSION_TTL                  Session lifetime (default: 24h)
    TASKBOARD_TIMEZONE                     Zone for naive timestamps and calendar days (default: Local)
    TASKBOARD_LOG_LEVEL                    debug, info, warn or error (default: info)
    TASKBOARD_APP_TIMEOUT                  Timeout of one-shot commands (default: 60s)
    TASKBOARD_DEBUG                        Force debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Apply configuration overrides from flags before any command runs
			return root.getConfigFromFlags()
		},
	}

	root.app = NewApp(nil, root.cmd.OutOrStdout())

	// Add global flags for configuration overrides
	root.addGlobalFlags()

	// Add all subcommands
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// SetArgs replaces os.Args[1:], mainly for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetOutput redirects command output and log lines
func (r *RootCommand) SetOutput(out, logOut io.Writer) {
	r.cmd.SetOut(out)
	r.cmd.SetErr(out)
	r.app.out = out
	r.logOut = logOut
}

// Config returns the configuration resolved by the last run, nil before that
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML configuration file (overrides TASKBOARD_CONFIG)")

	// Database configuration
	flags.String("db-type", "", "Database type, sqlite or postgres (overrides TASKBOARD_DB_TYPE)")
	flags.String("db-path", "", "SQLite database file (overrides TASKBOARD_DB_PATH)")
	flags.String("db-dsn", "", "PostgreSQL connection string (overrides TASKBOARD_DB_DSN)")
	flags.Bool("migrate", true, "Run migrations when opening the database (overrides TASKBOARD_DB_MIGRATE)")

	// Server configuration
	flags.String("addr", "", "HTTP listen address (overrides TASKBOARD_ADDR)")
	flags.Bool("cookie-secure", false, "Mark session cookies Secure (overrides TASKBOARD_COOKIE_SECURE)")

	// Time configuration
	flags.String("timezone", "", "IANA zone for naive timestamps (overrides TASKBOARD_TIMEZONE)")

	// Application configuration
	flags.String("log-level", "", "Log level (overrides TASKBOARD_LOG_LEVEL)")
	flags.Duration("app-timeout", 0, "Application timeout (overrides TASKBOARD_APP_TIMEOUT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.registry.Register("serve", NewServeCommand(r.app))
	r.registry.Register("migrate", NewMigrateCommand(r.app, &r.migrate))
	r.registry.Register("board", NewBoardCommand(r.app, &r.board))
	r.registry.Register("stats", NewStatsCommand(r.app, &r.stats))

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task board API",
		Long:  "Serve the JSON task board API until interrupted. SIGINT and SIGTERM trigger a graceful shutdown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return r.registry.Execute(ctx, "serve", args)
		},
	}

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
		Long: `Apply every pending schema migration, or revert the latest one with --rollback.

Migrations also run automatically when the database is opened unless --migrate=false is given.
With migrations disabled an existing legacy tasks table is served as-is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return r.registry.Execute(ctx, "migrate", args)
		},
	}
	migrateCmd.Flags().BoolVar(&r.migrate.Rollback, "rollback", false, "Revert the latest applied migration")

	// Board command
	boardCmd := &cobra.Command{
		Use:   "board [text]",
		Short: "Print a user's board",
		Long: `Print a user's tasks after search, filter and sort, grouped by category.

Status filters: all, completed, pending, overdue, today
Sort orders:    priority_desc, priority_asc, created_desc, created_asc

Examples:
  taskboard board --user alice
  taskboard board --user alice groceries              # Search title and description
  taskboard board --user alice --category Work --sort created_asc
  taskboard board --user alice --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return r.registry.Execute(ctx, "board", args)
		},
	}
	boardFlags := boardCmd.Flags()
	boardFlags.StringVarP(&r.board.User, "user", "u", "", "Username whose board to print")
	boardFlags.StringVar(&r.board.Search, "q", "", "Search text matched against title and description")
	boardFlags.StringVar(&r.board.Status, "status", "", "Status filter")
	boardFlags.StringVar(&r.board.Category, "category", "", "Category filter, All for every category")
	boardFlags.StringVar(&r.board.Sort, "sort", "", "Sort order")
	boardFlags.StringVarP(&r.board.Format, "format", "f", FormatTable, "Output format: table, json or csv")

	// Stats command
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show due-date statistics for a user",
		Long:  "Show how many open tasks are overdue, due today and due within the next seven days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return r.registry.Execute(ctx, "stats", args)
		},
	}
	statsCmd.Flags().StringVarP(&r.stats.User, "user", "u", "", "Username whose statistics to show")
	statsCmd.Flags().StringVarP(&r.stats.Format, "format", "f", FormatTable, "Output format: table, json or csv")

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(r.app.out, "taskboard %s\n", Version)
			return nil
		},
	}

	// Add all subcommands to root
	r.cmd.AddCommand(
		serveCmd,
		migrateCmd,
		boardCmd,
		statsCmd,
		versionCmd,
	)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second // Default timeout
}

// getConfigFromFlags loads the configuration cascade with the flags that were set on the
// command line as the final overrides, then configures logging
func (r *RootCommand) getConfigFromFlags() error {
	flags := r.cmd.PersistentFlags()

	if path, _ := flags.GetString("config"); path != "" {
		r.loader.WithFile(path)
	}

	overrides := &config.ConfigOverrides{}
	if flags.Changed("db-type") {
		v, _ := flags.GetString("db-type")
		overrides.DBType = &v
	}
	if flags.Changed("db-path") {
		v, _ := flags.GetString("db-path")
		overrides.DBPath = &v
	}
	if flags.Changed("db-dsn") {
		v, _ := flags.GetString("db-dsn")
		overrides.DBDSN = &v
	}
	if flags.Changed("migrate") {
		v, _ := flags.GetBool("migrate")
		overrides.DBMigrate = &v
	}
	if flags.Changed("addr") {
		v, _ := flags.GetString("addr")
		overrides.Addr = &v
	}
	if flags.Changed("cookie-secure") {
		v, _ := flags.GetBool("cookie-secure")
		overrides.CookieSecure = &v
	}
	if flags.Changed("timezone") {
		v, _ := flags.GetString("timezone")
		overrides.Timezone = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}

	cfg, err := r.loader.LoadWithOverrides(overrides)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	r.config = cfg
	r.app.config = cfg
	logging.Configure(cfg.Application.LogLevel, r.logOut)
	logging.Debugf("cli: loaded configuration for %s environment", cfg.Application.Environment)
	return nil
}
