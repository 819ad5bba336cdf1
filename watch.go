// FILE: lixenwraith/typedconf/watch.go
package typedconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultMaxSubscribers = 100 // Prevent resource exhaustion

// ErrWatcherRunning is returned when Run is called on a running watcher
var ErrWatcherRunning = errors.New("watcher already running")

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// Debounce duration to coalesce bursts of file events (minimum 10ms)
	Debounce time.Duration

	// MaxSubscribers limits concurrent subscriber channels
	MaxSubscribers int

	// Loader options used for every reload
	Loader LoaderOptions

	// Logger receives reload diagnostics (nil = no-op)
	Logger *zap.Logger
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce:       DefaultDebounce,
		MaxSubscribers: DefaultMaxSubscribers,
		Loader:         DefaultLoaderOptions(),
	}
}

// Change describes the outcome of a reload. On failure Err is set and
// Config is the configuration still in effect.
type Change struct {
	Keys   []string
	Config *TypedConfig
	Err    error
}

// Watcher keeps a TypedConfig in sync with its file. Every reload builds a
// new TypedConfig; published configs are never modified.
type Watcher struct {
	path    string
	opts    WatchOptions
	logger  *zap.Logger
	current atomic.Pointer[TypedConfig]
	running atomic.Bool

	mu          sync.Mutex
	subscribers map[int64]chan Change
	nextID      int64
	closed      bool
}

// NewWatcher loads path and returns a watcher holding the result.
// Call Run to start following changes.
func NewWatcher(path string, opts WatchOptions) (*Watcher, error) {
	if opts.Debounce < MinDebounce {
		opts.Debounce = MinDebounce
	}
	if opts.MaxSubscribers <= 0 {
		opts.MaxSubscribers = DefaultMaxSubscribers
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path '%s': %w", path, err)
	}

	raw, err := LoadFile(absPath, opts.Loader)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:        absPath,
		opts:        opts,
		logger:      logger.With(zap.String("path", absPath)),
		subscribers: make(map[int64]chan Change),
	}
	w.current.Store(Build(raw))
	return w, nil
}

// Path returns the absolute path of the watched file
func (w *Watcher) Path() string {
	return w.path
}

// Current returns the configuration currently in effect
func (w *Watcher) Current() *TypedConfig {
	return w.current.Load()
}

// IsRunning reports whether Run is active
func (w *Watcher) IsRunning() bool {
	return w.running.Load()
}

// Subscribe returns a channel receiving every reload that changed keys or
// failed. Slow subscribers miss notifications instead of blocking reloads.
// The channel is closed when Run returns.
func (w *Watcher) Subscribe() <-chan Change {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || len(w.subscribers) >= w.opts.MaxSubscribers {
		ch := make(chan Change)
		close(ch)
		return ch
	}

	ch := make(chan Change, subscriberBuffer)
	w.nextID++
	w.subscribers[w.nextID] = ch
	return ch
}

// SubscriberCount returns the number of active subscriber channels
func (w *Watcher) SubscriberCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subscribers)
}

// Run follows the file until ctx is done. The parent directory is watched
// so that editors replacing the file by rename are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrWatcherRunning
	}
	defer w.running.Store(false)
	defer w.closeSubscribers()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch '%s': %w", filepath.Dir(w.path), err)
	}

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || event.Op == fsnotify.Chmod {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(w.opts.Debounce)
			} else {
				debounce.Reset(w.opts.Debounce)
			}
			fire = debounce.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.Reload()
		}
	}
}

// Reload loads and types the file now. Subscribers are notified when keys
// changed or the load failed; a failed load keeps the current config.
func (w *Watcher) Reload() Change {
	raw, err := LoadFile(w.path, w.opts.Loader)
	if err != nil {
		w.logger.Warn("reload failed, keeping previous configuration", zap.Error(err))
		change := Change{Config: w.Current(), Err: err}
		w.notify(change)
		return change
	}

	next := Build(raw)
	prev := w.current.Swap(next)
	change := Change{Keys: prev.Diff(next), Config: next}
	if len(change.Keys) == 0 {
		return change
	}

	w.logger.Info("configuration reloaded", zap.Strings("changed", change.Keys))
	w.notify(change)
	return change
}

// notify sends change to all subscribers without blocking
func (w *Watcher) notify(change Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subscribers {
		select {
		case ch <- change:
		default:
			w.logger.Debug("subscriber channel full, dropping notification")
		}
	}
}

func (w *Watcher) closeSubscribers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, ch := range w.subscribers {
		close(ch)
		delete(w.subscribers, id)
	}
	w.closed = true
}
