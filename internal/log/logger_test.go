package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != slog.LevelInfo || cfg.Format != "text" || cfg.Component != ComponentApp {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestNewJSONCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentLedger, Output: &buf})

	logger.InfoContext(context.Background(), "transaction created", FieldAccountID, "a1")
	logger.DebugContext(context.Background(), "dropped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug filtered):\n%s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec[FieldComponent] != ComponentLedger || rec[FieldAccountID] != "a1" {
		t.Errorf("record = %v", rec)
	}

	buf.Reset()
	logger.WithComponent(ComponentWorker).InfoContext(context.Background(), "x")
	if !strings.Contains(buf.String(), `"component":"worker"`) {
		t.Errorf("WithComponent output = %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without logger returned nil")
	}

	logger := New(Config{Component: ComponentHTTP, Output: &bytes.Buffer{}})
	ctx := context.WithValue(context.Background(), LoggerContextKey, logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestLogHTTPEndLevel(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{500, "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf})
		ctx := context.WithValue(context.Background(), LoggerContextKey, logger)
		r := httptest.NewRequest("GET", "/accounts?x=1", nil)

		LogHTTPEnd(ctx, r, tt.status, 3, "10.0.0.1")

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("status %d: %v", tt.status, err)
		}
		if rec["level"] != tt.level {
			t.Errorf("status %d: level = %v, want %s", tt.status, rec["level"], tt.level)
		}
		if rec[FieldPath] != "/accounts" || rec[FieldQuery] != "x=1" || rec[FieldClientIP] != "10.0.0.1" {
			t.Errorf("status %d: record = %v", tt.status, rec)
		}
	}
}
