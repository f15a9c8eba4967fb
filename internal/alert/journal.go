// Package alert is the output collaborator: it tags signals as actionable
// or informational, appends them to a JSONL journal, and records audit
// entries for events that produced no signal.
package alert

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Journal appends newline-delimited JSON records to a file. Safe for
// concurrent use. A nil Journal discards writes.
type Journal struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *bufio.Writer
}

// NewJournal returns a journal appending to path, or nil when path is empty.
func NewJournal(path string) *Journal {
	if path == "" {
		return nil
	}
	return &Journal{path: path}
}

// Write appends v as one JSON object plus newline, flushing so tailers see
// the record immediately.
func (j *Journal) Write(v any) error {
	if j == nil {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		j.file = f
		j.w = bufio.NewWriter(f)
	}

	if _, err := j.w.Write(b); err != nil {
		return err
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return err
	}
	return j.w.Flush()
}

// Close flushes and closes the underlying file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	var firstErr error
	if j.w != nil {
		if err := j.w.Flush(); err != nil {
			firstErr = err
		}
	}
	if j.file != nil {
		if err := j.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	j.w = nil
	j.file = nil
	return firstErr
}
