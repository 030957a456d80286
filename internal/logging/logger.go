package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup(debug bool) {
	slog.SetDefault(slog.New(NewContextHandler(stdoutHandler(debug))))
}

// WithSink replaces the default logger with one that also forwards records to sink.
func WithSink(debug bool, sink slog.Handler) {
	slog.SetDefault(slog.New(NewContextHandler(NewMultiHandler(stdoutHandler(debug), sink))))
}

func stdoutHandler(debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}
