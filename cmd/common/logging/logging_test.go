package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if got != tc.want || (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Warn("shown", "player", "p1")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"player":"p1"`) {
		t.Errorf("output = %s", out)
	}
}

func TestSetupWritesFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "logs", "wavepost.log")
	closer, err := Setup(Options{Level: "info", File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	slog.Info("decoded", "source", "a.mp3")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"source":"a.mp3"`) {
		t.Errorf("log file = %s", data)
	}

	if _, err := Setup(Options{Level: "nope"}); err == nil {
		t.Error("Setup accepted an unknown level")
	}
}
