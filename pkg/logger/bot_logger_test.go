package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"FATAL", LevelFatal},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetLevelChangesFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelError, Output: &buf, Service: "test"})

	log.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("INFO emitted below ERROR level: %q", buf.String())
	}

	log.SetLevel(LevelDebug)
	log.Info("now visible")

	out := buf.String()
	if !strings.Contains(out, "now visible") || !strings.Contains(out, `"level":"INFO"`) {
		t.Errorf("INFO not emitted after SetLevel(LevelDebug): %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelWarn, Output: &buf, Service: "test"})

	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	out := buf.String()
	if strings.Contains(out, `"level":"DEBUG"`) || strings.Contains(out, `"level":"INFO"`) {
		t.Errorf("sub-threshold entries emitted: %q", out)
	}
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, `"level":"ERROR"`) {
		t.Errorf("expected WARN and ERROR entries: %q", out)
	}
}
