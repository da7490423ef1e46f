package logging

import (
	"log/slog"
	"os"
)

// NewStdoutHandler returns the JSON handler used for stdout. Development
// environments also log at debug level.
func NewStdoutHandler(env string) slog.Handler {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

// Setup initializes the global slog logger with JSON output to stdout.
func Setup(env string) {
	slog.SetDefault(slog.New(NewStdoutHandler(env)))
}
