package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLevel(t *testing.T) {
	logger, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("default logger enables debug")
	}

	logger, err = New(WithLevel("debug"), WithDevelopment(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug level not enabled")
	}
}

func TestNewFieldsAndOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arpes.log")
	logger, err := New(
		WithOutput(path),
		WithFields(map[string]any{"app": "arpes", "": "dropped"}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("loaded", zap.Int("spectra", 2))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &entry); err != nil {
		t.Fatalf("log line %q: %v", raw, err)
	}
	if entry["app"] != "arpes" || entry["msg"] != "loaded" || entry["spectra"] != float64(2) {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry[""]; ok {
		t.Fatal("empty key was logged")
	}
}
