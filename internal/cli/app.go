package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/errors"
	"taskboard/internal/services"
)

// Version is stamped at build time with -ldflags "-X taskboard/internal/cli.Version=..."
var Version = "dev"

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the CLI application state shared by every command. The configuration is
// filled in by the root command once flags have been parsed.
type App struct {
	config *config.Config
	out    io.Writer
}

// NewApp creates an App writing to out (stdout when nil)
func NewApp(cfg *config.Config, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	return &App{config: cfg, out: out}
}

// Config returns the active configuration
func (a *App) Config() *config.Config {
	return a.config
}

// withServices opens the configured store, wires the services and closes the store when fn returns
func (a *App) withServices(ctx context.Context, fn func(*services.ServiceContainer) error) error {
	if a.config == nil {
		return errors.NewInvalidInputError("config", nil, "configuration not initialized")
	}

	store, err := config.CreateStore(ctx, a.config)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := services.NewServiceContainer(store, a.config, nil, services.Clock(timeNow))
	if err != nil {
		return errors.NewInvalidInputError("timezone", a.config.Time.Timezone, err.Error())
	}
	return fn(svc)
}

// resolveUser maps a --user flag onto an account
func resolveUser(ctx context.Context, svc *services.ServiceContainer, username string) (*services.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.NewInvalidInputError("user", username, "--user is required")
	}
	return svc.AccountService.FindByUsername(ctx, username)
}
