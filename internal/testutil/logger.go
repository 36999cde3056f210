package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything. Tests wire it
// wherever a component wants a *slog.Logger.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
