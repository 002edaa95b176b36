// Package logging opens the log file. The terminal belongs to the UI, so
// nothing is ever logged to stdout or stderr while it runs.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns a logger appending to path at the given level and a function
// closing the file. An empty path discards all output.
func Setup(path, level string) (zerolog.Logger, func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), noop, err
	}
	if path == "" {
		return zerolog.Nop(), noop, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("could not open log file: %w", err)
	}
	return New(f, lvl), f.Close, nil
}

// ParseLevel parses a level name case-insensitively. An empty name means info.
func ParseLevel(level string) (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return lvl, nil
}

// New builds the application logger on w
func New(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "photogrid").
		Logger()
}

// Console is a human readable logger for the headless commands
func Console(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}, lvl)
}

func noop() error { return nil }
