package app

import (
	"strings"
	"testing"
)

type captureWriter struct {
	lines []string
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.lines = append(w.lines, string(p))
	return len(p), nil
}

func TestLoggerLevelFilter(t *testing.T) {
	out := &captureWriter{}
	log := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: out})

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")
	log.Error("also shown")

	if len(out.lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(out.lines))
	}
	if !strings.Contains(out.lines[0], "[WARN] shown") {
		t.Errorf("line = %q", out.lines[0])
	}
}

func TestLoggerKeyValuePairs(t *testing.T) {
	out := &captureWriter{}
	log := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: out, Prefix: "pageview"})

	log.Info("page shown", "page", "index", "rows", 12)

	if len(out.lines) != 1 {
		t.Fatalf("got %d lines", len(out.lines))
	}
	line := out.lines[0]
	for _, want := range []string{"pageview:", "page shown", "page=index", "rows=12"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestLoggerWithComponent(t *testing.T) {
	out := &captureWriter{}
	log := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: out}).WithComponent("script")

	log.Warn("handler failed", "event", "click")

	if len(out.lines) != 1 || !strings.Contains(out.lines[0], "component=script") {
		t.Errorf("lines = %v", out.lines)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"bogus", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
