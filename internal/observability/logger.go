// Package observability provides the structured logger used across the
// service. Output is JSON lines on stdout, one entry per event.
package observability

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds a JSON slog.Logger at the given level. Unrecognized
// level names fall back to info.
func NewLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

// SetDefault installs a logger built from the LOG_LEVEL environment
// variable as the process-wide default.
func SetDefault() *slog.Logger {
	logger := NewLogger(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
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
