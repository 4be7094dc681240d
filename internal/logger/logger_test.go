package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/polkiloo/gopherdine/internal/config"
)

func TestNewProvidesJSONLogger(t *testing.T) {
	l := New(&config.Config{LogLevel: "info"})
	if l == nil {
		t.Fatal("expected logger, got nil")
	}

	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("expected info level to be enabled")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("did not expect debug level to be enabled")
	}

	if _, ok := l.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("expected JSON handler, got %T", l.Handler())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "debug")
	l.Debug("wallet debited", slog.Int64("customer_id", 7))
	if !strings.Contains(buf.String(), `"customer_id":7`) {
		t.Fatalf("expected structured attribute in output, got %s", buf.String())
	}
}
