package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTimeFormatStr is the time format used by the console appender.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output sink for log entries. This is a subset of the
// zapcore.Core interface.
type Appender interface {
	// Write submits one structured log entry to the sink.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync flushes any buffered entries, e.g. at shutdown.
	Sync() error
}

// ConsoleAppender renders log entries as human-readable tab-separated lines
// on the wrapped writer.
type ConsoleAppender struct {
	io.Writer
}

// NewStdoutAppender creates an appender that prints to stdout.
func NewStdoutAppender() ConsoleAppender {
	return ConsoleAppender{os.Stdout}
}

// NewWriterAppender creates an appender that prints to the given writer.
func NewWriterAppender(writer io.Writer) ConsoleAppender {
	return ConsoleAppender{writer}
}

// NewFileAppender creates an appender that writes to a rotating log file.
// The returned io.Closer eventually closes the file.
func NewFileAppender(filename string) (Appender, io.Closer) {
	rotator := &lumberjack.Logger{
		Filename: filename,
		// Effectively never roll over on size; an existing file is appended to.
		MaxSize: 1024 * 1024,
	}
	return NewWriterAppender(rotator), rotator
}

// Write renders the entry to the underlying writer. Timestamps are UTC so
// logs from different processes compare without timezone setup.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	parts := make([]string, 0, 6)
	parts = append(parts, entry.Time.UTC().Format(DefaultTimeFormatStr))
	parts = append(parts, strings.ToUpper(entry.Level.String()))
	if entry.LoggerName != "" {
		parts = append(parts, entry.LoggerName)
	}
	if entry.Caller.Defined {
		parts = append(parts, callerToString(&entry.Caller))
	}
	parts = append(parts, entry.Message)
	if len(fields) > 0 {
		parts = append(parts, fieldsToJSON(fields))
	}
	_, err := fmt.Fprintln(appender.Writer, strings.Join(parts, "\t"))
	return err
}

// Sync is a no-op; the console appender does not buffer.
func (appender ConsoleAppender) Sync() error {
	return nil
}

// fieldsToJSON serializes structured fields as a JSON object. Encoding
// failures are themselves reported as a JSON field rather than dropped.
func fieldsToJSON(fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}
	data, err := json.Marshal(enc.Fields)
	if err != nil {
		return fmt.Sprintf(`{"logging_err":%q}`, err.Error())
	}
	return string(data)
}

// callerToString trims the caller's file down to <package>/<file>:<line>.
// The input must satisfy caller.Defined.
func callerToString(caller *zapcore.EntryCaller) string {
	cnt := 0
	idx := strings.LastIndexFunc(caller.File, func(rn rune) bool {
		if rn == '/' {
			cnt++
		}
		return cnt == 2
	})
	return fmt.Sprintf("%s:%d", caller.File[idx+1:], caller.Line)
}
