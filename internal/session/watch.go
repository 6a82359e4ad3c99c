package session

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// burstWindow bounds how long after a Create an identical Write still
// belongs to the same file write.
const burstWindow = 100 * time.Millisecond

// created is a record reported from a Create event.
type created struct {
	rec Record
	at  time.Time
}

// Watch follows the store directory and sends every record that lands in it
// until ctx is cancelled, then closes the channel. Files that do not parse
// are skipped, as in Records.
func (s *Store) Watch(ctx context.Context) (<-chan Record, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &IOError{Op: "watch store", Path: s.dir, Err: err}
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, &IOError{Op: "watch store", Path: s.dir, Err: err}
	}

	out := make(chan Record)
	go func() {
		defer close(out)
		defer watcher.Close()

		// A record written in place raises Create then Write; report it once.
		// A later identical capture is a new write and is reported again.
		fresh := make(map[string]created)
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				name := filepath.Base(event.Name)
				if strings.HasPrefix(name, ".") || filepath.Ext(name) != recordExt {
					continue
				}
				rec, err := s.read(event.Name)
				if err != nil {
					continue
				}
				if event.Has(fsnotify.Create) {
					fresh[event.Name] = created{rec: rec, at: time.Now()}
				} else if c, ok := fresh[event.Name]; ok {
					delete(fresh, event.Name)
					if c.rec == rec && time.Since(c.at) < burstWindow {
						continue
					}
				}
				select {
				case out <- rec:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watcher errors are non-fatal; continue watching.
				slog.Debug("store watcher error", "dir", s.dir, "err", err)
			}
		}
	}()
	return out, nil
}
