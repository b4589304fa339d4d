// Package watch reports preferences files that are replaced on disk, for
// example by another process saving the same application's preferences.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/store"
)

// Handler receives a freshly loaded file after it changed on disk.
type Handler func(name string, file *prefs.File)

// Watcher watches the directory of a filesystem store.
type Watcher struct {
	store   *store.FSStore
	names   map[string]bool // empty means every file
	handler Handler
	log     *zap.Logger
	watcher *fsnotify.Watcher

	// Debouncing
	pending       map[string]time.Time
	debounceMu    sync.Mutex
	debounceDelay time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithDebounce sets how long a file must be quiet before it is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounceDelay = d }
}

// New creates a watcher for the named files of s, or all of its files when
// names is empty.
func New(s *store.FSStore, names []string, handler Handler, opts ...Option) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store:         s,
		names:         make(map[string]bool),
		handler:       handler,
		log:           zap.NewNop(),
		watcher:       watcher,
		pending:       make(map[string]time.Time),
		debounceDelay: 100 * time.Millisecond,
		done:          make(chan struct{}),
	}
	for _, name := range names {
		w.names[name] = true
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. The store's directory is created if needed.
func (w *Watcher) Start() error {
	dir := w.store.Location()
	if !w.store.IsValid() {
		return store.ErrUnavailable
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.eventLoop()
	go w.debounceLoop()

	w.log.Info("Watching preferences", zap.String("path", dir))
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

// eventLoop processes file system events.
func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Watcher error", zap.Error(err))
		}
	}
}

// handleEvent queues the file an event refers to. Temporary ".new" files do
// not carry the store's extension and are skipped.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	name, ok := w.fileName(event.Name)
	if !ok {
		return
	}
	w.log.Debug("Preferences event", zap.String("op", event.Op.String()), zap.String("file", name))

	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.debounceMu.Lock()
		w.pending[name] = time.Now()
		w.debounceMu.Unlock()
	}
}

// fileName maps a path in the watched directory to a preferences file name.
func (w *Watcher) fileName(path string) (string, bool) {
	ext := "." + w.store.Codec().Ext()
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ext) {
		return "", false
	}
	name := strings.TrimSuffix(base, ext)
	if name == "" || (len(w.names) > 0 && !w.names[name]) {
		return "", false
	}
	return name, true
}

// debounceLoop processes pending reloads after the debounce delay.
func (w *Watcher) debounceLoop() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending reloads files that have been quiet for at least debounceDelay.
func (w *Watcher) processPending() {
	w.debounceMu.Lock()
	now := time.Now()
	var ready []string
	for name, queuedAt := range w.pending {
		if now.Sub(queuedAt) >= w.debounceDelay {
			ready = append(ready, name)
			delete(w.pending, name)
		}
	}
	w.debounceMu.Unlock()

	for _, name := range ready {
		f, ok := w.store.Load(name)
		if !ok {
			continue
		}
		w.handler(name, f)
	}
}
