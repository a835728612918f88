package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup_JSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	if err := Setup(&buf, "debug", "json"); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	slog.Debug("cache hit", "url", "https://example.com")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if rec["msg"] != "cache hit" {
		t.Errorf("msg = %v, want cache hit", rec["msg"])
	}
}

func TestSetup_LevelFilters(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	if err := Setup(&buf, "warn", "console"); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	slog.Info("hidden")
	slog.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestSetup_Rejects(t *testing.T) {
	if err := Setup(&bytes.Buffer{}, "loud", "json"); err == nil {
		t.Error("Setup accepted unknown level")
	}
	if err := Setup(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("Setup accepted unknown format")
	}
}
