package fileio

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent describes one externally observed modification to a linked
// file, the payload for the supplemental file_changed_on_disk hook.
type ChangeEvent struct {
	Path string
}

// Watcher tails a set of linked file paths and reports writes, renames,
// and removes via a single callback. One Watcher backs every linked
// buffer; paths are added and dropped as buffers link and unlink.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func(ChangeEvent)

	mu      sync.Mutex
	watched map[string]bool

	done chan struct{}
}

// NewWatcher starts watching the filesystem in the background. onChange
// is invoked from the watcher's internal goroutine; callers must hand
// the event off to their own loop rather than touch editor state from
// onChange directly.
func NewWatcher(onChange func(ChangeEvent)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fileio: new watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		onChange: onChange,
		watched:  map[string]bool{},
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch starts tracking path. Safe to call multiple times for the same
// path; duplicates are ignored.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[path] {
		return nil
	}
	if err := w.fsw.Add(path); err != nil {
		return fmt.Errorf("fileio: watch %s: %w", path, err)
	}
	w.watched[path] = true
	return nil
}

// Unwatch stops tracking path, called when a buffer unlinks its file.
// Closing a buffer does not unwatch its linked path.
func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.watched[path] {
		return
	}
	delete(w.watched, path)
	_ = w.fsw.Remove(path)
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Rename|fsnotify.Remove|fsnotify.Create) != 0 {
				w.onChange(ChangeEvent{Path: event.Name})
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher and releases its underlying resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
