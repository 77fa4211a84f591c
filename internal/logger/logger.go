package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hey-granth/profile-guard/internal/config"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

type Config struct {
	Level      string
	Format     Format
	Component  string
	WithSource bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

type ctxKey struct{}

var (
	mu     sync.RWMutex
	logger *slog.Logger
	cfg    = Config{
		Level:      "info",
		Format:     FormatText,
		Component:  "",
		WithSource: false,
	}
)

// InitFromConfig initializes global logger from app config.
func InitFromConfig(c *config.Config) {
	if c == nil {
		Init(nil)
		return
	}
	Init(&Config{
		Level:      c.Log.Level,
		Format:     Format(c.Log.Format),
		Component:  c.Log.Component,
		WithSource: c.Log.Source,
	})
}

// Init sets up the global logger. Safe to call multiple times.
func Init(c *Config) {
	mu.Lock()
	defer mu.Unlock()

	if c != nil {
		cfg = *c
	}
	logger = build(cfg)
}

// New builds a standalone logger without touching the global one.
func New(c Config) *slog.Logger {
	return build(c)
}

// Nop returns a logger that drops everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func build(c Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(c.Level),
		AddSource: c.WithSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && c.Format == FormatText {
				return slog.String(slog.TimeKey, time.Now().Format("2006-01-02 15:04:05"))
			}
			return a
		},
	}

	out := c.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	if strings.ToLower(string(c.Format)) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	base := slog.New(handler)
	if c.Component != "" {
		base = base.With("component", c.Component)
	}
	return base
}

// L returns the global logger. Always returns a non-nil instance.
func L() *slog.Logger {
	mu.RLock()
	if logger != nil {
		defer mu.RUnlock()
		return logger
	}
	mu.RUnlock()

	// initialize default logger if not set
	Init(nil)

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// WithContext stores a request-scoped logger in ctx.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, falling back to fallback
// and then to the global logger.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return L()
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

// --- helpers ---

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
