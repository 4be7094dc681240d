package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/polkiloo/gopherdine/internal/config"
)

// New creates a JSON slog.Logger with the level configured for the service.
func New(cfg *config.Config) *slog.Logger {
	return newWithWriter(os.Stdout, cfg.LogLevel)
}

func newWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler)
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
