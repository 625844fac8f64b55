// internal/logging/logging.go

// Package logging builds the structured run logger over log/slog.
//
// The logger is constructed once per run and handed down through stage
// options; stages never log through a package-level default, which keeps
// parallel runs and tests isolated from each other.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New returns a text-format logger writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "info").
// quiet raises the floor to error so per-record diagnostics stay out of
// scripted pipelines without hiding real failures.
func New(w io.Writer, level string, quiet bool) *slog.Logger {
	lv := parseLevel(level)
	if quiet && lv < slog.LevelError {
		lv = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
