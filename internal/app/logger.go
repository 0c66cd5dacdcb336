package app

import (
	"io"
	"log/slog"
)

// newLogger builds the process logger from the configured level and format.
// It does not set the global logger, so every App owns an isolated one.
// Unknown levels fall back to info; any format other than json is text.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(outW, opts)
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, opts)
	}
	return slog.New(handler).With("component", "nodegraph")
}
