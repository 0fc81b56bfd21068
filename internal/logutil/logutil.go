// ABOUTME: Default slog configuration for the CLI and examples
// ABOUTME: Level parsing plus text-to-stdout or JSON-to-file output
package logutil

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// Configure sets the default slog logger.
//
// Valid levels are "none", "error", "warn", "info" and "debug"; any
// other value returns an error. With an empty logFile records go to
// stdout as text; otherwise they go to the named file as JSON. The
// returned *os.File is non-nil only in the file case and should be
// closed by the caller on shutdown.
func Configure(level string, logFile string) (*os.File, error) {
	var opts slog.HandlerOptions
	switch level {
	case "none":
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil, nil
	case "error":
		opts.Level = slog.LevelError
	case "warn":
		opts.Level = slog.LevelWarn
	case "info":
		opts.Level = slog.LevelInfo
	case "debug":
		opts.Level = slog.LevelDebug
	default:
		return nil, errors.New("unexpected log level")
	}

	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &opts)))
		return nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &opts)))
	return f, nil
}
