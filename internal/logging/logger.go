// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide slog logger.
//
// The TUI owns the terminal, so by default logs go to ~/.davom/davom.log.
// Headless commands may log to stderr instead.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/davom-tui/internal/config"
)

// Setup builds a logger from cfg, installs it with slog.SetDefault and
// returns it together with a closer for the underlying file (a no-op for
// stderr and discard).
func Setup(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "stderr":
		w = os.Stderr
	case "discard":
		w = io.Discard
	case "file", "":
		path := cfg.File
		if path == "" {
			if path, err = config.DefaultLogFile(); err != nil {
				return nil, nil, err
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	default:
		return nil, nil, fmt.Errorf("invalid log output: %s", cfg.Output)
	}

	logger, err := New(w, level, cfg.Format)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}

// New creates a logger writing to w. The "error" key is normalised to "err".
func New(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel parses a level name.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
