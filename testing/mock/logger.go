package mock

import "github.com/tendermint/tendermint/libs/log"

var _ log.Logger = (*MockLogger)(nil)

// MockLogger implements the Logger interface and records every entry
type MockLogger struct {
	DebugLogs  []LogEntry
	InfoLogs   []LogEntry
	ErrorLogs  []LogEntry
	WithRecord []interface{}
}

// LogEntry is a struct that contains the message and params passed to the logger
type LogEntry struct {
	Message string
	Params  []interface{}
}

// NewMockLogger returns a new MockLogger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Debug records a debug entry
func (l *MockLogger) Debug(msg string, params ...interface{}) {
	l.DebugLogs = append(l.DebugLogs, LogEntry{Message: msg, Params: params})
}

// Info records an info entry
func (l *MockLogger) Info(msg string, params ...interface{}) {
	l.InfoLogs = append(l.InfoLogs, LogEntry{Message: msg, Params: params})
}

// Error records an error entry
func (l *MockLogger) Error(msg string, params ...interface{}) {
	l.ErrorLogs = append(l.ErrorLogs, LogEntry{Message: msg, Params: params})
}

// With records the params and returns the same logger
func (l *MockLogger) With(params ...interface{}) log.Logger {
	l.WithRecord = append(l.WithRecord, params...)
	return l
}

// HasInfo returns true if an info entry with the given message was recorded.
func (l *MockLogger) HasInfo(msg string) bool {
	for _, entry := range l.InfoLogs {
		if entry.Message == msg {
			return true
		}
	}
	return false
}
