package spies

import (
	"context"
	"slices"
	"sync"
)

// LogRecord represents one captured log call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
}

// ContextualLoggerSpy captures log calls for testing. It implements both eventstore.Logger
// and eventstore.ContextualLogger.
type ContextualLoggerSpy struct {
	records []LogRecord
	mu      sync.Mutex
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (l *ContextualLoggerSpy) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, LogRecord{Level: level, Message: msg, Args: slices.Clone(args)})
}

func (l *ContextualLoggerSpy) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *ContextualLoggerSpy) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *ContextualLoggerSpy) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *ContextualLoggerSpy) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *ContextualLoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	l.record("debug", msg, args)
}

func (l *ContextualLoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	l.record("info", msg, args)
}

func (l *ContextualLoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	l.record("warn", msg, args)
}

func (l *ContextualLoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	l.record("error", msg, args)
}

// GetRecords returns a copy of all captured records.
func (l *ContextualLoggerSpy) GetRecords() []LogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.records)
}

// HasInfoLog reports whether an info record with message was captured.
func (l *ContextualLoggerSpy) HasInfoLog(message string) bool {
	return l.hasLog("info", message)
}

// HasWarnLog reports whether a warn record with message was captured.
func (l *ContextualLoggerSpy) HasWarnLog(message string) bool {
	return l.hasLog("warn", message)
}

// HasErrorLog reports whether an error record with message was captured.
func (l *ContextualLoggerSpy) HasErrorLog(message string) bool {
	return l.hasLog("error", message)
}

func (l *ContextualLoggerSpy) hasLog(level, message string) bool {
	for _, record := range l.GetRecords() {
		if record.Level == level && record.Message == message {
			return true
		}
	}

	return false
}
