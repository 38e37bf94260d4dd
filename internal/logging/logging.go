// Package logging wraps zerolog with a console/file duality: a
// human-readable console stream and a JSON-lines file stream, selected
// independently.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level names the four severities the rest of the module logs at.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the console writer's rendering.
type Format string

const (
	FormatConsole Format = "console" // colorized, human-readable
	FormatJSON    Format = "json"    // one JSON object per line
)

// Config controls where and how a Logger writes.
type Config struct {
	Level  Level
	Format Format

	// FilePath, when non-empty, duplicates every log line as JSON into
	// the named file in addition to the console stream. Empty disables
	// file logging.
	FilePath string
}

// Logger is a thin handle over a configured zerolog.Logger. It carries
// no process-wide singleton: callers construct one and pass it down,
// matching proxydetect's own stance of taking no logger at all.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger from cfg. Opening FilePath is the caller's
// responsibility to clean up: New never closes a file it opens, since
// zerolog holds the handle for the logger's entire lifetime.
func New(cfg Config) (*Logger, error) {
	var out io.Writer = os.Stdout
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		out = zerolog.MultiLevelWriter(out, f)
	}

	zl := zerolog.New(out).With().Timestamp().Logger().Level(levelToZerolog(cfg.Level))
	return &Logger{zl: zl}, nil
}

func levelToZerolog(l Level) zerolog.Level {
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

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// With returns a child Logger carrying an additional structured field,
// for tagging log lines with the contract address under inspection.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}
