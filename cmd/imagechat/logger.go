package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// newLogger returns the diagnostics logger. The TUI owns the terminal, so in
// TUI mode logs go to a JSON file; headless runs log text to stderr.
func newLogger(o options, stderr io.Writer) (*slog.Logger, func() error, error) {
	if o.headless() {
		return slog.New(slog.NewTextHandler(stderr, nil)), func() error { return nil }, nil
	}

	path := o.logPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".imagechat", "imagechat.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, nil)), f.Close, nil
}
