package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phsym/console-slog"
	"golang.org/x/term"
)

// parseLevel maps a log_level value to a slog level. Unknown values are
// rejected by config validation, so they fall back to info here.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// newLogger writes colored console output when w is a terminal and JSON
// lines otherwise, so logs piped from an X session stay machine readable.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(console.NewHandler(w, &console.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// initLogger installs the default logger.
func initLogger(level slog.Level) *slog.Logger {
	logger := newLogger(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}
