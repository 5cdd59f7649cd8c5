package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates the process-wide JSON logger at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
