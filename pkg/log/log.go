package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a type alias so callers elsewhere in the module can spell
// component loggers without importing zerolog directly.
type Logger = zerolog.Logger

var (
	// Base is the global logger instance every component logger derives
	// from.
	Base zerolog.Logger
)

// Level represents log level
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Init initializes the global logger
func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case InfoLevel:
		level = zerolog.InfoLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.JSONOutput {
		Base = zerolog.New(output).With().Timestamp().Logger()
	} else {
		Base = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
}

func init() {
	// Sensible default so packages that log before Init (e.g. in
	// tests) don't panic on a zero-value logger.
	Init(Config{Level: InfoLevel, JSONOutput: true})
}

// WithComponent creates a child logger tagged with the subsystem name,
// e.g. "pool", "transaction", "database".
func WithComponent(component string) zerolog.Logger {
	return Base.With().Str("component", component).Logger()
}

// WithNamespace creates a child logger tagged with a transaction
// namespace.
func WithNamespace(namespace string) zerolog.Logger {
	return Base.With().Str("namespace", namespace).Logger()
}

// WithTransaction creates a child logger tagged with a transaction id.
func WithTransaction(id string) zerolog.Logger {
	return Base.With().Str("transaction", id).Logger()
}

// WithObjectPath creates a child logger tagged with a MetaObject path
// name.
func WithObjectPath(path string) zerolog.Logger {
	return Base.With().Str("object_path", path).Logger()
}

// Helper functions for common logging patterns, mirrored on Base.
func Info(msg string) { Base.Info().Msg(msg) }

func Debug(msg string) { Base.Debug().Msg(msg) }

func Warn(msg string) { Base.Warn().Msg(msg) }

func Error(msg string) { Base.Error().Msg(msg) }

func Errorf(format string, err error) { Base.Error().Err(err).Msg(format) }

func Fatal(msg string) { Base.Fatal().Msg(msg) }
