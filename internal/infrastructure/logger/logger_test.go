package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer

	log := zerolog.New(&buf).Level(parseLevel("info")).With().Timestamp().Logger()
	log.Info().Str("obligation_id", "ob-1").Msg("balance computed")

	output := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Fatalf("expected json output to start with '{', got %q", output)
	}
	if !strings.Contains(output, `"obligation_id":"ob-1"`) {
		t.Fatalf("expected structured field in output, got %q", output)
	}
}

func TestLoggerLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer

	log := zerolog.New(&buf).Level(parseLevel("warn"))
	log.Debug().Msg("should be dropped")
	log.Warn().Msg("should be kept")

	output := buf.String()
	if strings.Contains(output, "should be dropped") {
		t.Fatalf("debug message leaked through warn level: %q", output)
	}
	if !strings.Contains(output, "should be kept") {
		t.Fatalf("warn message missing: %q", output)
	}
}
