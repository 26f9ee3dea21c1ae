// Package logger provides JSON structured logging using zerolog
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level  string
	Format string // "json" or "console"
	Output io.Writer
}

// New builds a root logger and installs it as the zerolog global.
func New(config Config) (zerolog.Logger, error) {
	var output = config.Output
	if output == nil {
		output = os.Stdout
	}

	if config.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if config.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return zerolog.Nop(), err
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	l := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "sms-wecom-relay").
		Logger()

	log.Logger = l

	return l, nil
}

// WithComponent tags every event from the returned logger with a component name.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}
