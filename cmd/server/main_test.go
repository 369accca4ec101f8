package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/afrolearn/afrolearn/internal/catalog"
	"github.com/afrolearn/afrolearn/internal/platform/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LogConfig
		logLevel slog.Level
		want     bool
	}{
		{"info passes at info level", config.LogConfig{Level: "info", Format: "json"}, slog.LevelInfo, true},
		{"debug filtered at info level", config.LogConfig{Level: "info", Format: "json"}, slog.LevelDebug, false},
		{"debug passes at debug level", config.LogConfig{Level: "debug", Format: "text"}, slog.LevelDebug, true},
		{"bad level falls back to info", config.LogConfig{Level: "loud", Format: "json"}, slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(tt.cfg)
			got := logger.Enabled(context.Background(), tt.logLevel)
			if got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.logLevel, got, tt.want)
			}
		})
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("server starting", "addr", ":8080")

	if !strings.Contains(buf.String(), `"addr":":8080"`) {
		t.Errorf("log output = %q, want JSON with addr field", buf.String())
	}
}

func TestSeedIfEmpty_SkipsPopulatedCatalog(t *testing.T) {
	store := catalog.NewMemoryStore()
	ctx := t.Context()
	if _, err := store.InsertSubject(ctx, "Mathematics", "math"); err != nil {
		t.Fatalf("InsertSubject() error = %v", err)
	}

	// A populated catalog skips the import entirely, so the bogus path is
	// never touched.
	if err := seedCatalog(ctx, store, "/does/not/exist"); err != nil {
		t.Fatalf("seedCatalog() error = %v", err)
	}
}
