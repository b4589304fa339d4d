// Package registry caches the preferences files of one application and
// saves the ones that changed.
package registry

import (
	"cmp"
	"io"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/store"
)

// SaveMode selects which cached files a flush writes.
type SaveMode int

const (
	// SaveIfChanged writes only files whose changed flag is set.
	SaveIfChanged SaveMode = iota
	// SaveAlways writes every cached file.
	SaveAlways
)

// String returns the mode's name.
func (m SaveMode) String() string {
	if m == SaveAlways {
		return "always"
	}
	return "if-changed"
}

// Preferences is the registry of loaded files. Files are loaded lazily and
// cached for the life of the registry.
//
// Files are owned by a single goroutine: the one that edits them must also
// call Save, SaveAsync and Flush, since those read the live trees. Only the
// background writes run elsewhere, on snapshots taken by SaveAsync.
type Preferences struct {
	appID string
	store store.Store
	log   *zap.Logger

	mu    sync.Mutex
	files map[string]*prefs.File
}

// Option configures a registry.
type Option func(*Preferences)

// WithStore uses s instead of the platform's default store.
func WithStore(s store.Store) Option {
	return func(p *Preferences) { p.store = s }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Preferences) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates the registry for appID. Without WithStore, files are kept in
// the OS preferences directory, or in localStorage when running in a browser.
func New(appID string, opts ...Option) *Preferences {
	p := &Preferences{
		appID: appID,
		log:   zap.NewNop(),
		files: make(map[string]*prefs.File),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.store == nil {
		p.store = store.Default(appID, store.WithLogger(p.log))
	}
	if !p.store.IsValid() {
		fields := []zap.Field{zap.String("app_id", appID)}
		if s, ok := p.store.(interface{ Err() error }); ok && s.Err() != nil {
			fields = append(fields, zap.Error(s.Err()))
		}
		p.log.Warn("No preferences location available, preferences will not be saved", fields...)
	}
	return p
}

// AppID returns the identifier the registry was created with.
func (p *Preferences) AppID() string {
	return p.appID
}

// Store returns the backing store.
func (p *Preferences) Store() store.Store {
	return p.store
}

// Logger returns the registry's logger.
func (p *Preferences) Logger() *zap.Logger {
	return p.log
}

// IsValid reports whether the store has somewhere to persist to.
func (p *Preferences) IsValid() bool {
	return p.store.IsValid()
}

// Get returns the named file, loading it on first use. It never creates a
// file; false means the file does not exist or could not be read.
func (p *Preferences) Get(name string) (*prefs.File, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if f, ok := p.files[name]; ok {
		return f, true
	}
	f, ok := p.store.Load(name)
	if !ok {
		return nil, false
	}
	p.files[name] = f
	return f, true
}

// GetMut returns the named file for editing, loading it or creating an
// empty one. It fails only when the store is invalid. A created file starts
// unchanged and is written once something modifies it.
func (p *Preferences) GetMut(name string) (*prefs.File, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if f, ok := p.files[name]; ok {
		return f, true
	}
	if !p.store.IsValid() {
		return nil, false
	}
	f, ok := p.store.Load(name)
	if !ok {
		f = p.store.Create()
	}
	p.files[name] = f
	return f, true
}

// Names returns the names of the cached files, sorted.
func (p *Preferences) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.files))
	for name := range p.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type entry struct {
	name string
	file *prefs.File
}

// pending returns the cached files a save should write, in name order.
func (p *Preferences) pending(force bool) []entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []entry
	for name, f := range p.files {
		if force || f.IsChanged() {
			out = append(out, entry{name, f})
		}
	}
	slices.SortFunc(out, func(a, b entry) int { return cmp.Compare(a.name, b.name) })
	return out
}

// Save writes every changed file (every file, with force) and blocks until
// done. A file is marked unchanged before its write; a failed write is
// logged and marks it changed again.
func (p *Preferences) Save(force bool) {
	if !p.store.IsValid() {
		return
	}
	for _, e := range p.pending(force) {
		e.file.ClearChanged()
		if err := p.store.Save(e.name, e.file); err != nil {
			e.file.SetChanged()
			p.log.Error("Error saving preferences file", zap.String("file", e.name), zap.Error(err))
		}
	}
}

// SaveAsync is Save with the writes done in the background. Each file is
// marked unchanged and snapshotted before this returns, so edits made while
// a write is in flight mark the file changed again and are picked up by the
// next save.
func (p *Preferences) SaveAsync(force bool) {
	if !p.store.IsValid() {
		return
	}
	for _, e := range p.pending(force) {
		f := e.file
		f.ClearChanged()
		p.store.SaveAsync(e.name, f.Content(), func(err error) {
			if err != nil {
				f.SetChanged()
			}
		})
	}
}

// Flush waits for background saves, then saves synchronously. Hosts call it
// on shutdown.
func (p *Preferences) Flush(mode SaveMode) {
	_ = p.Wait()
	p.Save(mode == SaveAlways)
}

// Wait blocks until every background save has finished. The error is the
// first write failure since the previous Wait; it has already been logged.
func (p *Preferences) Wait() error {
	return p.store.Wait()
}

// Close flushes changed files and releases the store.
func (p *Preferences) Close() error {
	p.Flush(SaveIfChanged)
	if c, ok := p.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
