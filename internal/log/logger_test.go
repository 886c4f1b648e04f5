package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithOutputTagsService(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithOutput(&buf, "info")
	logger.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Fatalf("message missing from output: %q", out)
	}
	if !strings.Contains(out, serviceName) {
		t.Fatalf("service tag missing from output: %q", out)
	}
}

func TestNewWithOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithOutput(&buf, "error")
	logger.Debug().Msg("noise")
	logger.Info().Msg("noise")

	if buf.Len() != 0 {
		t.Fatalf("expected no output below error level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
