// Package session derives terminal session identifiers and persists the
// latest captured command output for each session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is the last captured command of one terminal session.
type Record struct {
	Command   string `json:"command"`
	Output    string `json:"output"`
	Timestamp uint64 `json:"timestamp"` // seconds since epoch
	SessionID string `json:"session_id"`
}

// Time returns the capture time.
func (r Record) Time() time.Time {
	return time.Unix(int64(r.Timestamp), 0)
}

// MarshalRecord encodes r as indented JSON.
func MarshalRecord(r Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// recordFields are the keys of a record file. Keys match exactly; a
// differently cased key does not count.
var recordFields = []string{"command", "output", "timestamp", "session_id"}

// ParseRecord decodes a record file. Documents that are not an object with
// all four fields are rejected; unknown fields are ignored.
func ParseRecord(data []byte) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Record{}, err
	}

	var rec Record
	targets := map[string]any{
		"command":    &rec.Command,
		"output":     &rec.Output,
		"timestamp":  &rec.Timestamp,
		"session_id": &rec.SessionID,
	}
	var missing []string
	for _, name := range recordFields {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			missing = append(missing, name)
			continue
		}
		if err := json.Unmarshal(raw, targets[name]); err != nil {
			return Record{}, fmt.Errorf("field %s: %w", name, err)
		}
	}
	if len(missing) > 0 {
		return Record{}, fmt.Errorf("not a command record: missing %s", strings.Join(missing, ", "))
	}
	return rec, nil
}

// ParseError is returned when a record file exists but cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse record " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError reports a filesystem failure on the store directory or a record.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

var (
	// ErrNoCacheDirectory is returned when the platform cache root is unknown.
	ErrNoCacheDirectory = errors.New("no cache directory found")
	// ErrNoRecentOutput is returned when the store holds no readable record.
	ErrNoRecentOutput = errors.New("no recent command output found")
	// ErrInvalidSessionID is wrapped in the IOError returned when a session
	// identifier cannot name a record file.
	ErrInvalidSessionID = errors.New("invalid session id")
)
