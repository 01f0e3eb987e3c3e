// Package testutil holds helpers shared across test suites.
package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything. Every component
// takes a *slog.Logger; tests pass this one to keep output quiet.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
