package mocks

import (
	"fmt"
	"sync"

	"github.com/user/gifcut/pkg/ports"
)

// Logger is a mock implementation of ports.Logger that records formatted messages.
type Logger struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	prefix  string
}

// LogEntry is one recorded log line.
type LogEntry struct {
	Level     string
	Component string
	Message   string
}

// NewLogger creates a new mock Logger.
func NewLogger() *Logger {
	return &Logger{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.add("debug", msg, args...) }
func (m *Logger) Info(msg string, args ...interface{}) { m.add("info", msg, args...) }
func (m *Logger) Warn(msg string, args ...interface{}) { m.add("warn", msg, args...) }
func (m *Logger) Error(msg string, args ...interface{}) { m.add("error", msg, args...) }

// WithComponent returns a logger sharing the same record.
func (m *Logger) WithComponent(component string) ports.Logger {
	return &Logger{mu: m.mu, entries: m.entries, prefix: component}
}

func (m *Logger) add(level, msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.entries = append(*m.entries, LogEntry{
		Level:     level,
		Component: m.prefix,
		Message:   fmt.Sprintf(msg, args...),
	})
}

// Entries returns all recorded entries (for test verification).
func (m *Logger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), *m.entries...)
}

// Messages returns the messages recorded at level.
func (m *Logger) Messages(level string) []string {
	var out []string
	for _, e := range m.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

var _ ports.Logger = (*Logger)(nil)
