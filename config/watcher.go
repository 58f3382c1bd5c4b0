package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/logger"
)

// DefaultDebounce collapses bursts of editor writes into a single regeneration
const DefaultDebounce = 500 * time.Millisecond

// ChangeCallback is called once per debounced burst of changes
type ChangeCallback func() error

// Watcher watches the graph document and config file, triggering regeneration on change
type Watcher struct {
	paths          []string
	watcher        *fsnotify.Watcher
	callbacks      []ChangeCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	done           chan struct{}
}

// NewWatcher creates a watcher over the given files.
// Parent directories are watched so that atomic-rename saves are seen.
func NewWatcher(debounce time.Duration, paths ...string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	watched := make(map[string]bool)
	var abs []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		full, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		abs = append(abs, full)

		dir := filepath.Dir(full)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
		watched[dir] = true
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		paths:          abs,
		watcher:        watcher,
		debouncePeriod: debounce,
		done:           make(chan struct{}),
	}, nil
}

// OnChange registers a callback to be called after a debounced change
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Done is closed when the watcher stops
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logger.Infow("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.scheduleRun()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// relevant reports whether an event touches a watched file with a write, create or rename
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if isBackupFile(event.Name) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	for _, p := range w.paths {
		if p == name {
			return true
		}
	}
	return false
}

// scheduleRun debounces rapid file changes and triggers the callbacks
func (w *Watcher) scheduleRun() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

func (w *Watcher) fire() {
	w.mu.RLock()
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(); err != nil {
			// Continue calling other callbacks even if one fails
			logger.Errorw("Watch callback failed", logger.FieldError, err)
		}
	}
}

// Stop stops watching for changes
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// isBackupFile checks if the file is a config backup (.back1, .back2, .back3)
func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back")
}
