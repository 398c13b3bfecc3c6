package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one provisioned instance's credential record.
type Entry struct {
	Timestamp time.Time
	ID        int
	Hostname  string
	User      string
	Password  string
}

// Log appends credential entries to a file. The file is the only
// persisted artifact of a provisioning run; it is never rewritten.
type Log struct {
	path string
}

// NewLog creates a Log writing to path.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Append writes one entry. The file is created 0600 on first use since
// it holds plaintext passwords.
func (l *Log) Append(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open credentials log: %w", err)
	}
	defer f.Close()

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	line := fmt.Sprintf("%s id=%d hostname=%s user=%s password=%s\n",
		ts.Format(time.RFC3339), e.ID, e.Hostname, e.User, e.Password)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append credentials entry: %w", err)
	}

	return nil
}
