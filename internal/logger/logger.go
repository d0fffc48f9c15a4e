// Package logger provides the leveled structured logger used across the
// tool. Output goes to stderr: colored through tint on a terminal, logfmt
// text otherwise.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// Logger is a thin wrapper around *slog.Logger. A nil *Logger discards
// everything.
type Logger struct {
	sl *slog.Logger
}

// New returns a logger writing to stderr.
func New() *Logger {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		// skip 2 slog pkg calls, 2 this pkg calls
		return &Logger{sl: slog.New(withCallDepth(4, newTerminalHandler(os.Stderr)))}
	}

	return &Logger{sl: slog.New(newTextHandler(os.Stderr))}
}

// NewWithWriter returns a logger emitting logfmt text to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{sl: slog.New(newTextHandler(w))}
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}

	return &Logger{sl: l.sl.With(args...)}
}

func (l *Logger) Error(msg string, args ...any)   { l.log(slog.LevelError, msg, args...) }
func (l *Logger) Warning(msg string, args ...any) { l.log(slog.LevelWarn, msg, args...) }
func (l *Logger) Info(msg string, args ...any)    { l.log(slog.LevelInfo, msg, args...) }
func (l *Logger) Debug(msg string, args ...any)   { l.log(slog.LevelDebug, msg, args...) }

func (l *Logger) Errorf(format string, a ...any)   { l.log(slog.LevelError, fmt.Sprintf(format, a...)) }
func (l *Logger) Warningf(format string, a ...any) { l.log(slog.LevelWarn, fmt.Sprintf(format, a...)) }
func (l *Logger) Infof(format string, a ...any)    { l.log(slog.LevelInfo, fmt.Sprintf(format, a...)) }
func (l *Logger) Debugf(format string, a ...any)   { l.log(slog.LevelDebug, fmt.Sprintf(format, a...)) }

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if l == nil || l.sl == nil || !Level.Enabled(level) {
		return
	}

	l.sl.Log(context.Background(), level, msg, args...)
}
