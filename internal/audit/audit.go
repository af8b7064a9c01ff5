// Package audit provides append-only structured logging for secret
// operations.
//
// Every mutating or value-revealing operation (define, undefine, set
// value, get value) can be recorded as newline-delimited JSON so the
// host keeps a local record of which secrets were touched and when.
// The log file location comes from configuration; auditing is off when
// no path is configured.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Action describes what happened.
type Action string

const (
	ActionSecretDefine   Action = "secret_define"
	ActionSecretUndefine Action = "secret_undefine"
	ActionSecretSetValue Action = "secret_set_value"
	ActionSecretGetValue Action = "secret_get_value"
)

// Entry is a single audit log record. Secret values never appear in
// entries, only identity and outcome.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Action    Action    `json:"action"`
	UUID      string    `json:"uuid,omitempty"`
	Usage     string    `json:"usage,omitempty"` // "ceph:client.admin secret"
	Actor     string    `json:"actor,omitempty"` // "cli"
	Error     string    `json:"error,omitempty"`
}

// Logger writes audit entries to an append-only file.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewLogger creates or opens an audit log file for appending.
func NewLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &Logger{file: f, path: path}, nil
}

// Log writes an audit entry. Entries without a timestamp get the
// current time in UTC.
func (l *Logger) Log(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Result records the outcome of an operation on a secret. Usage is the
// secret's usage binding, empty for unbound secrets. A non-nil operation
// error is captured in the entry.
func (l *Logger) Result(action Action, uuid, usage string, opErr error) error {
	entry := Entry{
		Action: action,
		UUID:   uuid,
		Usage:  usage,
		Actor:  "cli",
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	return l.Log(entry)
}

// Close closes the audit log file.
func (l *Logger) Close() error {
	return l.file.Close()
}
