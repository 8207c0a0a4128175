package logger

import (
	"log/slog"
	"os"
)

// Log is safe to use before Init; Init swaps in the production handler.
var Log = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Init() {
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	Log = slog.New(handler)
}
