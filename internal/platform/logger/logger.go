// Package logger configures the zerolog logger used by the admin CLI.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // trace, debug, info, warn, error
	Format string // json, console
	Output io.Writer
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

// Setup initializes the global logger with the provided configuration.
// Library code logging through slog is routed to the same output at warn level and above.
func Setup(config LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	slogOutput := output

	if strings.ToLower(config.Format) != "json" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	slogLevel := slog.LevelWarn
	if level <= zerolog.DebugLevel {
		slogLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(slogOutput, &slog.HandlerOptions{Level: slogLevel})))
	return nil
}

// WithComponent returns a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
