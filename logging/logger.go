// Package logging builds the zerolog loggers used by the converter.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	envLevel  = "SAFARI_CONVERTER_LOG_LEVEL"
	envFormat = "SAFARI_CONVERTER_LOG_FORMAT"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Out        io.Writer // Defaults to os.Stderr
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(out).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// ApplyEnv overrides cfg with the values of the logging environment variables.
func ApplyEnv(cfg Config) Config {
	if level, ok := ParseLevel(os.Getenv(envLevel)); ok {
		cfg.Level = level
	}
	if format, ok := ParseFormat(os.Getenv(envFormat)); ok {
		cfg.Format = format
	}
	return cfg
}

// ParseLevel resolves a level name. Unknown or empty names are not ok.
func ParseLevel(s string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off":
		return zerolog.Disabled, true
	}
	return zerolog.NoLevel, false
}

// ParseFormat resolves an output format name.
func ParseFormat(s string) (string, bool) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "json", "console":
		return s, true
	}
	return "", false
}
