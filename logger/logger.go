package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger = zerolog.Logger

// New returns a sub-logger tagged with the given component name.
func New(component string) *Logger {
	sublogger := log.With().
		Str("component", component).
		Logger()
	return &sublogger
}

// Configure sets the global level and output. LOG_LEVEL takes any zerolog level
// name, DEBUG is a shortcut for debug, LOG_FORMAT=json disables the console writer.
func Configure(out io.Writer) {
	level := zerolog.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}
	if _, debug := os.LookupEnv("DEBUG"); debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	})
}

func init() {
	Configure(os.Stderr)
}
