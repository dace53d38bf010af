package config

import (
	"fmt"
	"io"
	"log/slog"
)

// SetupLogging installs the default slog logger for level ("debug", "info", "warn",
// "error") and format ("text" or "json").
func SetupLogging(w io.Writer, level, format string) error {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "", "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	switch format {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
