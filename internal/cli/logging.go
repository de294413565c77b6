package cli

import (
	"io"
	"log/slog"
)

// newLogger writes text records to stderr. Verbose lowers the level to debug.
func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}
