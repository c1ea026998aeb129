// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LogOptions holds the logging flags every leaf command accepts.
type LogOptions struct {
	Verbose bool `json:"-" flag:"verbose,v" desc:"log every toolchain command and environment change"`
	Quiet   bool `json:"-" flag:"quiet,q" desc:"log warnings and errors only"`
}

// Level returns the log level selected by the flags. --quiet wins
// over --verbose.
func (o LogOptions) Level() slog.Level {
	switch {
	case o.Quiet:
		return slog.LevelWarn
	case o.Verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// NewCommandLogger creates a structured logger writing to w. When w is
// a terminal it uses slog.TextHandler for human-readable output;
// otherwise (CI, pipes, tests) slog.JSONHandler, so build logs can be
// collected and queried.
//
// Callers scope the logger with command-specific context via With():
//
//	logger = logger.With("target", target.String())
func NewCommandLogger(w io.Writer, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if IsTerminal(w) {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
