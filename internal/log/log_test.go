package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")
	logger.Info("test message", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "test message") {
		t.Errorf("expected 'test message' in output, got %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected 'key=value' in output, got %q", out)
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "")
	logger.Warn("warning")

	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected WARN level in output, got %q", out)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden")
	logger.Debug("hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	buf.Reset()
	New(&buf, "debug").Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}
