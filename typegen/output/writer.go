// Package output writes generated files under the output directory and removes stale ones.
package output

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/logger"
)

// Retry policy for opening output files held by another process
const (
	MaxAttempts = 10
	RetryDelay  = 50 * time.Millisecond
)

// OpenFunc opens a file for writing, truncating it
type OpenFunc func(path string) (io.WriteCloser, error)

func openFile(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, config.DefaultFilePermissions)
}

// Writer writes files below one root directory. It is safe for concurrent use.
type Writer struct {
	root  string
	open  OpenFunc
	delay time.Duration
	log   *zap.SugaredLogger

	mu      sync.Mutex
	dirs    map[string]*sync.Mutex
	written map[string]bool
}

// Option configures a Writer
type Option func(*Writer)

// WithOpener replaces the function used to open output files
func WithOpener(open OpenFunc) Option {
	return func(w *Writer) { w.open = open }
}

// WithRetryDelay replaces the fixed delay between open attempts
func WithRetryDelay(d time.Duration) Option {
	return func(w *Writer) { w.delay = d }
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		root:    filepath.Clean(dir),
		open:    openFile,
		delay:   RetryDelay,
		log:     logger.ComponentLogger("output"),
		dirs:    make(map[string]*sync.Mutex),
		written: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the output directory
func (w *Writer) Root() string {
	return w.root
}

// Write stores content at the slash-separated path rel below the root and returns the full path.
// Files whose content is unchanged are left untouched.
func (w *Writer) Write(ctx context.Context, rel, content string) (string, error) {
	full := filepath.Join(w.root, filepath.FromSlash(rel))
	w.markWritten(full)

	if err := w.ensureDir(filepath.Dir(full)); err != nil {
		return full, err
	}

	if existing, err := os.ReadFile(full); err == nil && bytes.Equal(existing, []byte(content)) {
		w.log.Debugw("Unchanged", logger.FieldFile, full)
		return full, nil
	}

	f, err := w.openWithRetry(ctx, full)
	if err != nil {
		return full, err
	}
	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return full, errors.Wrapf(err, "failed to write %s", full)
	}
	if err := f.Close(); err != nil {
		return full, errors.Wrapf(err, "failed to close %s", full)
	}
	return full, nil
}

// Written lists every path passed to Write, sorted
func (w *Writer) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.written))
	for p := range w.written {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (w *Writer) markWritten(full string) {
	w.mu.Lock()
	w.written[full] = true
	w.mu.Unlock()
}

func (w *Writer) isWritten(full string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written[full]
}

// ensureDir creates dir, serializing creation per directory path
func (w *Writer) ensureDir(dir string) error {
	w.mu.Lock()
	lock, ok := w.dirs[dir]
	if !ok {
		lock = &sync.Mutex{}
		w.dirs[dir] = lock
	}
	w.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}
	return nil
}

// openWithRetry retries transient sharing failures with a fixed delay.
// Exhausting the attempts fails with errors.ErrTransientIO.
func (w *Writer) openWithRetry(ctx context.Context, path string) (io.WriteCloser, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		f, err := w.open(path)
		if err == nil {
			return f, nil
		}
		if !isTransient(err) {
			return nil, errors.Wrapf(err, "failed to open %s", path)
		}
		lastErr = err
		w.log.Debugw("Output file busy", logger.FieldFile, path, logger.FieldAttempt, attempt, logger.FieldError, err)

		if attempt == MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(w.delay):
		}
	}

	return nil, errors.WithSecondaryError(
		errors.Wrapf(errors.ErrTransientIO, "%s still locked after %d attempts", path, MaxAttempts),
		lastErr,
	)
}

func isTransient(err error) bool {
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.ETXTBSY)
}
