package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	handler slog.Handler = newHandler(os.Stderr, slog.LevelInfo)
)

// Logger is a component-scoped structured logger.
type Logger struct {
	component string
}

// New returns a logger that tags every line with component.
func New(component string) *Logger {
	return &Logger{component: component}
}

// Configure sets the process-wide level and destination. An unknown level falls back to info;
// TASKBOARD_DEBUG forces debug.
func Configure(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level)
	if DebugEnabled() {
		lvl = slog.LevelDebug
	}

	mu.Lock()
	handler = newHandler(w, lvl)
	mu.Unlock()
}

// ParseLevel maps debug/info/warn/error onto slog levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

func (l *Logger) logger() *slog.Logger {
	mu.RLock()
	h := handler
	mu.RUnlock()
	return slog.New(h).With("component", l.component)
}

// Debug logs at debug level with alternating key/value pairs.
func (l *Logger) Debug(msg string, kv ...any) { l.logger().Debug(msg, kv...) }

// Info logs at info level.
func (l *Logger) Info(msg string, kv ...any) { l.logger().Info(msg, kv...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, kv ...any) { l.logger().Warn(msg, kv...) }

// Error logs at error level.
func (l *Logger) Error(msg string, kv ...any) { l.logger().Error(msg, kv...) }
