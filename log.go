package backdrop

import (
	"log/slog"
	"os"
)

// logger is shared by every mounted background. Rendering is
// single-threaded; SetLogger is expected to run before Mount.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelWarn,
})).With("component", "backdrop")

// SetLogger replaces the package logger. A nil logger restores the default
// warn-level stderr handler.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
	}
	logger = l.With("component", "backdrop")
}

func slogger() *slog.Logger {
	return logger
}
