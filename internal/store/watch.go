package store

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher surfaces external changes to the database file, the stand-in for
// another browser tab touching the same storage. Best effort only: callers
// get a nudge to re-read, not a consistency protocol.
type Watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// Watch invokes onChange every time the database file at dbPath is written
// by another process. The watch runs until Close is called.
func Watch(dbPath string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory: bbolt rewrites pages in place and editors or
	// other processes may replace the file entirely.
	if err := fw.Add(filepath.Dir(dbPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dbPath, err)
	}

	w := &Watcher{fw: fw, done: make(chan struct{})}
	base := filepath.Base(dbPath)

	go func() {
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChange()
				}
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Close stops the watch.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
