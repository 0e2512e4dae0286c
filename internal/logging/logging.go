// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package logging constructs the process-wide structured logger used
// across the indexer, bridge, attestation worker, and HTTP surface.
package logging

import (
	"log/slog"
	"os"
)

// New returns a slog.Logger writing to stderr at the given level name
// ("debug", "info", "warn", "error"; defaults to "info"). formatName
// selects the handler: "text" for a human-readable handler, anything
// else (including "") for JSON.
func New(levelName, formatName string) *slog.Logger {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if formatName == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
