// ABOUTME: fsnotify watcher that turns signal-directory writes into Signals
// ABOUTME: Touch is the writer side, replacing <dir>/<key> atomically

package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/fsnotify.v1"
)

const (
	// coalesceWindow covers the burst of events a single rename or write emits.
	coalesceWindow = 2 * time.Second
	coalesceSize   = 256
)

// Watcher publishes a Signal whenever a key file in its directory is created
// or rewritten.
type Watcher struct {
	dir    string
	bus    *Broadcaster
	seen   *Coalescer
	fs     *fsnotify.Watcher
	logger *slog.Logger
}

// NewWatcher starts watching dir, creating it if needed. Call Run to begin
// publishing and Close when done.
func NewWatcher(dir string, bus *Broadcaster, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating signal directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &Watcher{
		dir:    dir,
		bus:    bus,
		seen:   NewCoalescer(coalesceWindow, coalesceSize),
		fs:     fsw,
		logger: logger.With("component", "signal-watcher", "dir", dir),
	}, nil
}

// Run processes filesystem events until ctx is cancelled or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) {
	w.logger.Debug("signal watcher started")
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Write == fsnotify.Write {
				w.handle(event.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("signal watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(path string) {
	key := filepath.Base(path)
	if strings.HasPrefix(key, ".") {
		return // Touch temp file
	}

	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Debug("reading signal file failed", "key", key, "error", err)
		return
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		// Truncate half of a non-atomic write; the content arrives next.
		return
	}
	if w.seen.Duplicate(key + "=" + value) {
		return
	}

	w.logger.Debug("signal received", "key", key, "value", value)
	w.bus.Publish(Signal{Key: key, Value: value})
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Touch sets <dir>/<key> to value via write-then-rename so watchers never
// observe a partial file.
func Touch(dir, key, value string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return errors.New("invalid signal key")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating signal directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("creating temp signal file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing signal file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing signal file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing signal file: %w", err)
	}
	return nil
}
