// Package logx provides structured logging for the textrope engine and its
// surrounding tooling.
//
// It wraps zerolog behind a small, level-named API shaped after the
// teacher's hand-rolled app logger, so callers throughout the module see the
// same Debug/Info/Warn/Error vocabulary regardless of which component they
// are instrumenting.
package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog's level set under the engine's own names.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel parses a string into a Level, defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a component-scoped structured logger.
type Logger struct {
	zl zerolog.Logger
}

// New creates a Logger writing to w at the given level. Pass os.Stderr for
// the common case; tests typically pass io.Discard or a bytes.Buffer.
func New(w io.Writer, level Level, component string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zl := zerolog.New(w).
		Level(level.zerolog()).
		With().
		Timestamp().
		Str("component", component).
		Logger()
	return &Logger{zl: zl}
}

// Nop returns a Logger that discards everything, for use where no logger
// was configured (engine packages must never require a non-nil Logger).
func Nop() *Logger {
	return New(io.Discard, LevelError, "")
}

// Default returns a Logger writing to stderr at info level.
func Default(component string) *Logger {
	return New(os.Stderr, LevelInfo, component)
}

func (l *Logger) Debugf(format string, args ...any) { l.zl.Debug().Msgf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.zl.Info().Msgf(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.zl.Warn().Msgf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.zl.Error().Msgf(format, args...) }

// With returns a child logger with an additional structured field, useful
// for tagging log lines with e.g. a buffer or view identifier.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}
