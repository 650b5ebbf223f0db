package cli

import (
	"context"
	"net"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/metrics"
	"taskboard/internal/server"
	"taskboard/internal/services"
)

// ServeCommand runs the HTTP server until its context is cancelled
type ServeCommand struct {
	app *App

	// listener, when set, is used instead of listening on the configured address
	listener net.Listener
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute runs the serve command. The store stays open for the lifetime of the server.
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	cfg := c.app.config
	log := logging.New("serve")

	store, err := config.CreateStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()
	svc, err := services.NewServiceContainer(store, cfg, m, services.Clock(timeNow))
	if err != nil {
		return err
	}

	sessions := server.NewSessionStore(cfg.Server.SessionTTL, timeNow)
	srv := server.New(cfg, svc, sessions, m)

	log.Info("starting server",
		"addr", cfg.Server.Addr, "database", store.Dialect(), "shape", store.Schema().Shape())

	if c.listener != nil {
		return srv.Serve(ctx, c.listener)
	}
	return srv.ListenAndServe(ctx)
}
