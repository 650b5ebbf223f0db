package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/errors"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	sessionKey
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// RequestIDFrom returns the id assigned by the request id middleware, or ""
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// SessionFrom returns the session attached by requireSession
func SessionFrom(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey).(Session)
	return session, ok
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestID reuses an incoming X-Request-ID or assigns a fresh one
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// withLogging writes one line per request
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", RequestIDFrom(r.Context()),
		)
	})
}

// withRecover turns a handler panic into a 500
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.log.Error("handler panic", "path", r.URL.Path, "panic", v, "request_id", RequestIDFrom(r.Context()))
				writeJSON(w, http.StatusInternalServerError, errorResponse{
					Error:     "An unexpected error occurred. Please try again.",
					Code:      "INTERNAL",
					RequestID: RequestIDFrom(r.Context()),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireSession rejects requests without a live session cookie
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cfg.Server.CookieName)
		if err != nil {
			s.writeError(w, r, errors.NewUnauthorizedError("Please log in to access this page"))
			return
		}
		session, ok := s.sessions.Get(cookie.Value)
		if !ok {
			s.clearCookie(w)
			s.writeError(w, r, errors.NewUnauthorizedError("Please log in to access this page"))
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	}
}
