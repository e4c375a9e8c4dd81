package log

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// New builds the process logger: colored console output for local
// development, JSON everywhere else.
func New(w io.Writer, env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(NewContextHandler(inner))
}
