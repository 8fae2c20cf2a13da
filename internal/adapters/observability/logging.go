package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process logger on stdout.
// APP_ENV=dev (or development) uses a human-friendly console writer and
// Debug level; anything else logs JSON at Info. LOG_LEVEL overrides the level.
func NewLogger(env string) zerolog.Logger {
	return NewLoggerTo(os.Stdout, env, os.Getenv("LOG_LEVEL"))
}

func NewLoggerTo(w io.Writer, env, level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if env == "dev" || env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		lvl = zerolog.DebugLevel
	}
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("app", "hotel_insight").Logger()
}
