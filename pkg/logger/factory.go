package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config selects the handler, level and optional Sentry fan-out.
type Config struct {
	Level  string       `env:"LOG_LEVEL" envDefault:"info"`
	Format string       `env:"LOG_FORMAT" envDefault:"json"`
	Sentry SentryConfig
}

// New creates a JSON-formatted logger with optional context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewContextHandler(newJSONHandler(os.Stdout, slog.LevelInfo), extractors...))
}

// NewFromConfig builds a logger writing to w according to cfg.
// A configured Sentry DSN adds a Sentry handler next to the output handler.
func NewFromConfig(cfg Config, w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	level := ParseLevel(cfg.Level)

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case FormatConsole:
		handler = NewConsoleHandler(w, level)
	default:
		handler = newJSONHandler(w, level)
	}

	handler = withSentry(handler, cfg.Sentry)
	return slog.New(NewContextHandler(handler, extractors...))
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown values yield slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func newJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
