// Package logging installs the process-wide slog logger. The terminal UI owns
// stdout, so records go to a rotating file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Setup. An empty File discards all records.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Setup makes a JSON logger the slog default. The returned closer flushes
// and closes the log file.
func Setup(opts Options) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var w io.WriteCloser = nopWriteCloser{io.Discard}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		w = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    max(opts.MaxSizeMB, 1),
			MaxBackups: opts.MaxBackups,
		}
	}

	slog.SetDefault(New(w, level))
	return w, nil
}

// New builds the JSON logger used by Setup.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
