package logger

import (
	"log/slog"
	"os"
)

// Log defaults to the stdlib logger so packages can log before Init (and
// under test); Init swaps in the JSON handler for production.
var Log = slog.Default()

func Init() {
	// JSON handler so log aggregators can parse attempt-level fields
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	Log = slog.New(handler)
}
