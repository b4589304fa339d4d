// Package store implements the places preferences files are persisted to:
// a directory on the local filesystem, or a key/value medium (memory,
// SQLite, PostgreSQL, browser localStorage).
package store

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zot/prefs/internal/codec"
	"github.com/zot/prefs/internal/prefs"
)

// ErrUnavailable is returned when a store has no location to persist to.
var ErrUnavailable = errors.New("store: no preferences location available")

// ErrInvalidName is returned for file names that cannot be mapped to a location.
var ErrInvalidName = errors.New("store: invalid preferences file name")

// Store abstracts where preferences files live.
type Store interface {
	// IsValid reports whether the store found a location to persist to.
	// When false, Load finds nothing and saves are skipped.
	IsValid() bool

	// Create returns a new, empty file. Nothing is written until it is saved.
	Create() *prefs.File

	// Load reads the named file. It returns false if the file does not
	// exist or cannot be parsed.
	Load(name string) (*prefs.File, bool)

	// Save writes file synchronously.
	Save(name string, file *prefs.File) error

	// SaveAsync writes content on a background goroutine. done, if not nil,
	// is called on that goroutine with the result. Two async saves of the
	// same name are not ordered.
	SaveAsync(name string, content *prefs.Content, done func(error))

	// Wait blocks until every dispatched async save has finished and
	// returns the first error among them.
	Wait() error

	// Location describes where files are stored, for display.
	Location() string
}

// Option configures a store.
type Option func(*options)

type options struct {
	log     *zap.Logger
	codec   codec.Codec
	dir     string
	openErr error
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithCodec sets the file format of a filesystem store.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithDir makes a filesystem store use dir instead of the OS preferences
// directory.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithOpenError records why a key/value medium could not be opened. The
// store reports it from Err.
func WithOpenError(err error) Option {
	return func(o *options) { o.openErr = err }
}

// validName rejects names that would escape the store's namespace.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// asyncSaver runs background writes and lets callers drain them.
type asyncSaver struct {
	mu    sync.Mutex
	group *errgroup.Group
	log   *zap.Logger
}

func newAsyncSaver(log *zap.Logger) *asyncSaver {
	return &asyncSaver{group: &errgroup.Group{}, log: log}
}

func (a *asyncSaver) dispatch(name string, write func() error, done func(error)) {
	id := uuid.NewString()
	log := a.log.With(zap.String("file", name), zap.String("save_id", id))
	log.Debug("Dispatching async save")

	a.mu.Lock()
	g := a.group
	a.mu.Unlock()

	g.Go(func() error {
		err := write()
		if err != nil {
			log.Error("Error saving preferences file", zap.Error(err))
		} else {
			log.Debug("Async save complete")
		}
		if done != nil {
			done(err)
		}
		return err
	})
}

func (a *asyncSaver) wait() error {
	a.mu.Lock()
	g := a.group
	a.group = &errgroup.Group{}
	a.mu.Unlock()
	return g.Wait()
}
