package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/metrics"
	"taskboard/internal/services"
)

// Server serves the board's JSON API
type Server struct {
	cfg      *config.Config
	svc      *services.ServiceContainer
	sessions *SessionStore
	metrics  *metrics.Metrics
	mux      *http.ServeMux
	log      *logging.Logger
}

// New creates a server. m may be nil, in which case /metrics is not served.
func New(cfg *config.Config, svc *services.ServiceContainer, sessions *SessionStore, m *metrics.Metrics) *Server {
	if sessions == nil {
		sessions = NewSessionStore(cfg.Server.SessionTTL, nil)
	}
	s := &Server{
		cfg:      cfg,
		svc:      svc,
		sessions: sessions,
		metrics:  m,
		mux:      http.NewServeMux(),
		log:      logging.New("server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /signup", s.handleSignup)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.handleLogout)
	s.mux.HandleFunc("GET /me", s.requireSession(s.handleMe))
	s.mux.HandleFunc("POST /change-username", s.requireSession(s.handleChangeUsername))
	s.mux.HandleFunc("POST /change-password", s.requireSession(s.handleChangePassword))

	s.mux.HandleFunc("GET /tasks", s.requireSession(s.handleBoard))
	s.mux.HandleFunc("GET /stats", s.requireSession(s.handleStats))
	s.mux.HandleFunc("POST /tasks", s.requireSession(s.handleCreateTask))
	s.mux.HandleFunc("POST /tasks/{id}/edit", s.requireSession(s.handleEditTask))
	s.mux.HandleFunc("POST /tasks/{id}/toggle", s.requireSession(s.handleToggleTask))
	s.mux.HandleFunc("POST /tasks/{id}/move", s.requireSession(s.handleMoveTask))
	s.mux.HandleFunc("POST /tasks/{id}/delete", s.requireSession(s.handleDeleteTask))

	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// Handler returns the routed handler with the middleware chain applied
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	if s.metrics != nil {
		// innermost, so the pattern set by the mux is visible afterwards
		h = s.metrics.Middleware(func(r *http.Request) string { return r.Pattern }, h)
	}
	h = s.withRecover(h)
	h = s.withLogging(h)
	return withRequestID(h)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", ln.Addr().String(), "environment", s.cfg.Application.Environment)
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) sweepSessions(ctx context.Context) {
	interval := s.cfg.Server.SessionTTL / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				logging.Debugf("server: swept %d expired sessions", n)
			}
		}
	}
}
