package observability_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"hotel_insight/internal/adapters/observability"
)

func TestNewLoggerTo_JSONInProd(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLoggerTo(&buf, "prod", "")
	l.Debug().Msg("hidden")
	l.Info().Str("hotel_id", "H1").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("want 1 line at info level, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["hotel_id"] != "H1" || rec["app"] != "hotel_insight" || rec["message"] != "shown" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNewLoggerTo_ConsoleInDev(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLoggerTo(&buf, "dev", "")
	l.Debug().Msg("debug line")
	if !strings.Contains(buf.String(), "debug line") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}

func TestNewLoggerTo_LevelOverride(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLoggerTo(&buf, "prod", "warn")
	l.Info().Msg("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info must be dropped at warn, got %q", buf.String())
	}
}
