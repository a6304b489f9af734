// internal/util/logger.go
package util

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

var logger *slog.Logger

// LogOptions selects the handler and level for the global logger.
type LogOptions struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json or text
}

// InitLogger initializes the global structured logger.
// JSON is the production format; "text" switches to tint's colored handler for local runs.
func InitLogger(opts LogOptions) {
	logger = NewLogger(os.Stdout, opts)
	slog.SetDefault(logger) // Set as default logger for convenience
}

// NewLogger builds a logger writing to w without touching the global default.
func NewLogger(w io.Writer, opts LogOptions) *slog.Logger {
	level := ParseLevel(opts.Level)

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true, // Add file and line number to logs
			Level:     level,
		})
	}
	return slog.New(handler)
}

// GetLogger returns the initialized global logger.
func GetLogger() *slog.Logger {
	if logger == nil {
		InitLogger(LogOptions{}) // Initialize if not already initialized (should be called explicitly at app start)
	}
	return logger
}

// ParseLevel maps a level name to slog.Level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
