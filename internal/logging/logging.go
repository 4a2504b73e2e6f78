// Package logging provides the leveled, structured logger used throughout
// the session engine. It wraps zerolog behind the same small package-level
// API the engine's call sites expect: Debug/Info/Warn/Error plus a settable
// global level.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Level is a logging verbosity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelSilent disables all output.
	LevelSilent
)

// FromString parses a level name, defaulting to LevelInfo on no match.
func FromString(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "silent", "none":
		return LevelSilent
	default:
		return LevelInfo
	}
}

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// Logger wraps a zerolog.Logger with a settable level and correlation
// fields attached per session.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	logger zerolog.Logger
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level Level) *Logger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(level.zerologLevel())
	return &Logger{level: level, logger: zl}
}

// SetLevel adjusts the logger's verbosity threshold.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.logger = l.logger.Level(level.zerologLevel())
}

// With returns a child logger with a correlation field attached, used to
// tag every log line for a connection with its session ID.
func (l *Logger) With(key, value string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{level: l.level, logger: l.logger.With().Str(key, value).Logger()}
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger.WithLevel(level)
}

func (l *Logger) Debug(msg string, fields map[string]any) { emit(l.event(zerolog.DebugLevel), msg, fields) }
func (l *Logger) Info(msg string, fields map[string]any)  { emit(l.event(zerolog.InfoLevel), msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]any)  { emit(l.event(zerolog.WarnLevel), msg, fields) }
func (l *Logger) Error(msg string, fields map[string]any) { emit(l.event(zerolog.ErrorLevel), msg, fields) }

func emit(ev *zerolog.Event, msg string, fields map[string]any) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(os.Stderr, LevelInfo)
)

// Default returns the process-wide logger used by package-level helpers.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLevel adjusts the process-wide logger's verbosity.
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// Debug logs at debug level on the default logger.
func Debug(msg string, fields ...map[string]any) { Default().Debug(msg, merge(fields)) }

// Info logs at info level on the default logger.
func Info(msg string, fields ...map[string]any) { Default().Info(msg, merge(fields)) }

// Warn logs at warn level on the default logger.
func Warn(msg string, fields ...map[string]any) { Default().Warn(msg, merge(fields)) }

// Error logs at error level on the default logger.
func Error(msg string, fields ...map[string]any) { Default().Error(msg, merge(fields)) }

func merge(fields []map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	return fields[0]
}
