package cli

import (
	"io"
	"log/slog"
)

// SetupLogger installs the default logger. verbose lowers the level to
// debug regardless of the config.
func SetupLogger(w io.Writer, level int, format string, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(level)}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
