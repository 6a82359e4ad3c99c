package session

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	dirName   = "cco"
	recordExt = ".json"
)

// Store keeps one record file per session identifier in a single directory.
// The directory listing is the index. There is no locking: the last writer
// for a session wins, and readers skip files that vanish or are mid-write.
type Store struct {
	dir string
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used to timestamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// CacheDir returns <user cache root>/cco.
func CacheDir() (string, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCacheDirectory, err)
	}
	if root == "" {
		return "", ErrNoCacheDirectory
	}
	return filepath.Join(root, dirName), nil
}

// Open returns a Store rooted at dir, creating it and any parents.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, &IOError{Op: "create store directory", Path: dir, Err: err}
	}
	s := &Store{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// OpenDefault opens the store in the platform cache directory.
func OpenDefault(opts ...Option) (*Store, error) {
	dir, err := CacheDir()
	if err != nil {
		return nil, err
	}
	return Open(dir, opts...)
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+recordExt)
}

// Write replaces the record of sessionID. The new file is written next to
// the old one and renamed over it, so readers see either record whole.
func (s *Store) Write(sessionID, command, output string) (err error) {
	if !ValidID(sessionID) {
		return &IOError{Op: "write record", Path: s.path(sessionID), Err: fmt.Errorf("%w %q", ErrInvalidSessionID, sessionID)}
	}

	var ts uint64
	if unix := s.now().Unix(); unix > 0 {
		ts = uint64(unix)
	}
	data, err := MarshalRecord(Record{
		Command:   command,
		Output:    output,
		Timestamp: ts,
		SessionID: sessionID,
	})
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	// External cache cleanup may have removed the directory since Open.
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return &IOError{Op: "create store directory", Path: s.dir, Err: err}
	}

	tmpName := filepath.Join(s.dir, "."+sessionID+"."+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return &IOError{Op: "write record", Path: tmpName, Err: err}
	}
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return &IOError{Op: "write record", Path: tmpName, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &IOError{Op: "write record", Path: tmpName, Err: err}
	}
	if err = os.Rename(tmpName, s.path(sessionID)); err != nil {
		return &IOError{Op: "replace record", Path: s.path(sessionID), Err: err}
	}
	return nil
}

// ReadLatest returns the record of sessionID when it exists and parses.
// Otherwise it returns the newest readable record of any session, or
// ErrNoRecentOutput when there is none. Own-session output wins even when
// another session captured something more recently.
func (s *Store) ReadLatest(sessionID string) (Record, error) {
	if ValidID(sessionID) {
		if rec, err := s.read(s.path(sessionID)); err == nil {
			return rec, nil
		}
	}

	records, err := s.Records()
	if err != nil {
		return Record{}, err
	}
	rec, ok := Latest(records)
	if !ok {
		return Record{}, ErrNoRecentOutput
	}
	return rec, nil
}

// Records lists the store directory and returns a lazy sequence of the
// entries that parse as records. Only the listing itself can fail; entries
// that are unreadable, foreign or corrupt are skipped.
func (s *Store) Records() (iter.Seq[Record], error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			entries = nil
		} else {
			return nil, &IOError{Op: "list store", Path: s.dir, Err: err}
		}
	}

	return func(yield func(Record) bool) {
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != recordExt {
				continue
			}
			rec, err := s.read(filepath.Join(s.dir, name))
			if err != nil {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}, nil
}

// List returns every readable record, newest first.
func (s *Store) List() ([]Record, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	out := slices.Collect(records)
	slices.SortStableFunc(out, func(a, b Record) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return strings.Compare(a.SessionID, b.SessionID)
	})
	return out, nil
}

// Latest returns the record with the greatest timestamp. Among equal
// timestamps the first one seen wins.
func Latest(records iter.Seq[Record]) (Record, bool) {
	var (
		best  Record
		found bool
	)
	for rec := range records {
		if !found || rec.Timestamp > best.Timestamp {
			best, found = rec, true
		}
	}
	return best, found
}

func (s *Store) read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, &IOError{Op: "read record", Path: path, Err: err}
	}
	rec, err := ParseRecord(data)
	if err != nil {
		return Record{}, &ParseError{Path: path, Err: err}
	}
	return rec, nil
}
