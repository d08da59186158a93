package platform

import (
	"log/slog"
	"os"
)

// InitLogger sets up the global slog logger with sane defaults.
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true, Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handler))
}
