package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charmbracelet/log with the app's defaults.
type Logger struct {
	logger *log.Logger
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Default returns the process-wide logger. EMVIEW_DEBUG enables debug output.
func Default() *Logger {
	once.Do(func() {
		level := log.WarnLevel
		if os.Getenv("EMVIEW_DEBUG") != "" {
			level = log.DebugLevel
		}
		defaultLogger = New(os.Stderr, level)
	})
	return defaultLogger
}

// New returns a logger writing to w at the given level.
func New(w io.Writer, level log.Level) *Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "emview",
	})
	logger.SetLevel(level)
	return &Logger{logger: logger}
}

// ParseLevel maps a flag value to a level, falling back to warn.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.WarnLevel
	}
	return level
}

func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.logger.Debug(msg, keyvals...)
}

func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.logger.Info(msg, keyvals...)
}

func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.logger.Warn(msg, keyvals...)
}

func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.logger.Error(msg, keyvals...)
}

// With returns a logger that adds keyvals to every entry.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{logger: l.logger.With(keyvals...)}
}

// Performance logs how long operation took since start, at debug level.
func (l *Logger) Performance(operation string, start time.Time) {
	l.logger.Debug("Performance", "operation", operation, "duration", time.Since(start))
}
