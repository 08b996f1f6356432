package log

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"romcat/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()

	// thisFile is used to skip our own frames when resolving the caller.
	thisFile string
)

func init() {
	_, thisFile, _, _ = runtime.Caller(0)
}

// Logging is the logging surface handed to components.
type Logging interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	With(fields ...Field) Logging
	WithContext(ctx context.Context) Logging
}

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Option configures a Logger.
type Option func(*options)

type options struct {
	out      io.Writer
	json     bool
	filePath string
}

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile tees log lines into the file at path (appending).
func WithFile(path string) Option {
	return func(o *options) { o.filePath = path }
}

// Logger wraps a logrus logger with a fixed set of fields.
type Logger struct {
	base   *logrus.Logger
	fields logrus.Fields
	file   *os.File
}

var _ Logging = (*Logger)(nil)

// NewLogger creates a logger. Without options it writes text to stderr.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logger{fields: logrus.Fields{}}
	out := o.out
	if o.filePath != "" {
		if err := os.MkdirAll(filepath.Dir(o.filePath), 0755); err == nil {
			f, err := os.OpenFile(o.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				l.file = f
				out = io.MultiWriter(o.out, f)
			}
		}
	}

	base := logrus.New()
	base.SetOutput(out)
	// Debug gating is done by SetDebug so it applies to loggers created earlier.
	base.SetLevel(logrus.DebugLevel)
	if o.json {
		base.SetFormatter(&jsonFormatter{})
	} else {
		base.SetFormatter(&textFormatter{})
	}
	l.base = base
	return l
}

// Configure replaces the package logger used by the global helpers.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Default returns the package logger.
func Default() *Logger {
	return logger
}

// SetDebug enables or disables debug output for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// With returns a child logger carrying additional fields.
func (l *Logger) With(fields ...Field) Logging {
	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{base: l.base, fields: merged, file: l.file}
}

// WithContext is reserved for request scoped fields; it currently returns l.
func (l *Logger) WithContext(ctx context.Context) Logging {
	return l
}

func (l *Logger) Debug(args ...interface{}) {
	if isDebug.Load() {
		l.emit(logrus.DebugLevel, fmt.Sprint(args...))
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.emit(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Info(args ...interface{})  { l.emit(logrus.InfoLevel, fmt.Sprint(args...)) }
func (l *Logger) Warn(args ...interface{})  { l.emit(logrus.WarnLevel, fmt.Sprint(args...)) }
func (l *Logger) Error(args ...interface{}) { l.emit(logrus.ErrorLevel, fmt.Sprint(args...)) }

func (l *Logger) Infof(format string, args ...interface{}) {
	l.emit(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.emit(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.emit(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) emit(level logrus.Level, msg string) {
	fields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		// error values marshal to {} in JSON
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		fields[k] = v
	}
	if caller := callerLocation(); caller != "" {
		fields["caller"] = caller
	}
	l.base.WithFields(fields).Log(level, msg)
}

// callerLocation returns file:line of the first frame outside this file.
func callerLocation() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.File != thisFile && !strings.Contains(frame.File, "sirupsen/logrus") {
			return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return ""
		}
	}
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) Logging {
	return logger.With(fields...)
}

// LogWithError attaches the error text and its classification.
func LogWithError(err error) Logging {
	if err == nil {
		return logger.With(F("error", nil))
	}
	fields := []Field{
		F("error", err.Error()),
		F("error_kind", int(errors.KindOf(err))),
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var stationErr *errors.StationError
	if errors.As(err, &stationErr) && stationErr.StationID() >= 0 {
		fields = append(fields, F("station_id", stationErr.StationID()))
	}
	var previewErr *errors.PreviewError
	if errors.As(err, &previewErr) && previewErr.RomName() != "" {
		fields = append(fields, F("rom", previewErr.RomName()))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

// Info logs a formatted message
func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message when debug output is enabled
func Debug(msg string) {
	logger.Debug(msg)
}

// Debugf logs a formatted message when debug output is enabled
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Warn logs a warning message
func Warn(msg string) {
	logger.Warn(msg)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Error logs an error message
func Error(msg string) {
	logger.Error(msg)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

type textFormatter struct{}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", entry.Time.Format("2006-01-02 15:04:05"),
		strings.ToUpper(entry.Level.String()), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Data[k])
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Data)+3)
	for k, v := range entry.Data {
		data[k] = v
	}
	data["timestamp"] = entry.Time.Format(time.RFC3339)
	data["level"] = strings.ToUpper(entry.Level.String())
	data["message"] = entry.Message
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log entry: %w", err)
	}
	return append(b, '\n'), nil
}
