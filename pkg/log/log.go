// Package log provides the pluggable leveled logger used throughout the
// extraction pipeline. It mirrors the teacher's clog.PluggableLoggerInterface
// shape (New(level), Debug/Warn/Error/Trace with printf-style args) backed
// by logrus rather than a hand-rolled writer.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// PluggableLoggerInterface is the logging contract every package in this
// module depends on, never *logrus.Logger directly, so call sites stay
// testable and the backend stays swappable.
type PluggableLoggerInterface interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type logrusLogger struct {
	entry *logrus.Logger
}

// New builds a logger at the given level ("trace", "debug", "info", "warn",
// "error"); an unrecognised level falls back to "info".
func New(level string) PluggableLoggerInterface {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		FullTimestamp:    false,
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &logrusLogger{entry: l}
}

// NewTo builds a logger writing to an arbitrary sink (tests, or stderr for
// diagnostics as required by spec.md §6).
func NewTo(level string, w io.Writer) PluggableLoggerInterface {
	ll := New(level).(*logrusLogger)
	ll.entry.SetOutput(w)
	return ll
}

func (l *logrusLogger) Trace(msg string, args ...any) { l.entry.Tracef(msg, args...) }
func (l *logrusLogger) Debug(msg string, args ...any) { l.entry.Debugf(msg, args...) }
func (l *logrusLogger) Info(msg string, args ...any)  { l.entry.Infof(msg, args...) }
func (l *logrusLogger) Warn(msg string, args ...any)  { l.entry.Warnf(msg, args...) }
func (l *logrusLogger) Error(msg string, args ...any) { l.entry.Errorf(msg, args...) }
