package app

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the app logger. Frames are printed to the same writer,
// so warn keeps headless output readable by default. Unknown levels fall
// back to info; cli validates them before they get here.
func newLogger(level, format string, outW io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler = slog.NewTextHandler(outW, opts)
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(outW, opts)
	}
	return slog.New(handler).With("app", "scriptui")
}
