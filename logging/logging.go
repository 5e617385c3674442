// Package logging provides structured, leveled logging for the module,
// backed by zap. Planners log through the Logger interface so hosts can
// swap in their own sinks.
package logging

import (
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used throughout the module. It is a
// subset of zap's sugared logger plus sublogger management.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger namespaced under the receiver.
	Sublogger(name string) Logger

	// AsZap exposes the underlying zap logger for callers that need it.
	AsZap() *zap.SugaredLogger

	// Sync flushes any buffered log entries.
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
	core *appenderCore
}

func (l *logger) Sublogger(name string) Logger {
	return &logger{SugaredLogger: l.SugaredLogger.Named(name), core: l.core}
}

func (l *logger) AsZap() *zap.SugaredLogger {
	return l.SugaredLogger
}

func (l *logger) Sync() error {
	return multierr.Combine(l.SugaredLogger.Sync(), l.core.Sync())
}

func newLogger(name string, level zapcore.Level, appenders ...Appender) Logger {
	core := &appenderCore{level: level, appenders: appenders}
	z := zap.New(core, zap.AddCaller()).Named(name)
	return &logger{SugaredLogger: z.Sugar(), core: core}
}

// NewLogger returns an info-level logger writing to stdout.
func NewLogger(name string) Logger {
	return newLogger(name, zapcore.InfoLevel, NewStdoutAppender())
}

// NewDebugLogger returns a debug-level logger writing to stdout.
func NewDebugLogger(name string) Logger {
	return newLogger(name, zapcore.DebugLevel, NewStdoutAppender())
}

// NewBlankLogger returns a debug-level logger with no appenders attached;
// callers add their own.
func NewBlankLogger(name string) Logger {
	return newLogger(name, zapcore.DebugLevel)
}

// NewTestLogger routes debug-level output through the test framework so log
// lines interleave with test output.
func NewTestLogger(tb testing.TB) Logger {
	return newLogger(tb.Name(), zapcore.DebugLevel, NewWriterAppender(&testWriter{tb: tb}))
}

type testWriter struct {
	tb testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// appenderCore fans zap entries out to the configured appenders. It is a
// minimal zapcore.Core; appenders handle formatting.
type appenderCore struct {
	level     zapcore.Level
	appenders []Appender
	fields    []zapcore.Field
}

func (c *appenderCore) Enabled(level zapcore.Level) bool {
	return level >= c.level
}

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	combined := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	combined = append(combined, c.fields...)
	combined = append(combined, fields...)
	return &appenderCore{level: c.level, appenders: c.appenders, fields: combined}
}

func (c *appenderCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	var errs error
	for _, appender := range c.appenders {
		errs = multierr.Append(errs, appender.Write(entry, all))
	}
	return errs
}

func (c *appenderCore) Sync() error {
	var errs error
	for _, appender := range c.appenders {
		errs = multierr.Append(errs, appender.Sync())
	}
	return errs
}
