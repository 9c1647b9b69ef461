// Package watcher reports changes to a fixed set of declaration files.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"symtab/internal/shared/observability"

	"github.com/fsnotify/fsnotify"
)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watcher calls onChange with the watched files that changed, at most once
// per debounce window. Files outside the set are ignored and callbacks never
// overlap.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	onChange func([]string)
	deliver  sync.Mutex

	mu       sync.Mutex
	debounce time.Duration
	changed  map[string]struct{}
	timer    *time.Timer
}

func NewWatcher(debounce time.Duration, files []string, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		set[filepath.Clean(f)] = struct{}{}
	}
	return &Watcher{
		fsw:      fsw,
		files:    set,
		onChange: onChange,
		debounce: debounce,
		changed:  make(map[string]struct{}),
	}, nil
}

// Watch subscribes to the directory of every file rather than the file
// itself, so editors that save by replacing the file are still seen.
func (w *Watcher) Watch() error {
	seen := make(map[string]bool)
	for f := range w.files {
		dir := filepath.Dir(f)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()
			if event.Op&relevantOps == 0 {
				continue
			}
			if path := filepath.Clean(event.Name); w.watched(path) {
				w.mark(path)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) watched(path string) bool {
	_, ok := w.files[path]
	return ok
}

// mark records path and restarts the debounce window.
func (w *Watcher) mark(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.changed[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.changed))
	for p := range w.changed {
		paths = append(paths, p)
	}
	clear(w.changed)
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	slices.Sort(paths)

	w.deliver.Lock()
	defer w.deliver.Unlock()
	w.onChange(paths)
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
