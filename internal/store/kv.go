package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/zot/prefs/internal/codec"
	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/value"
)

// KV is a string key/value medium that a KVStore persists into.
type KV interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Close releases the medium.
	Close() error
}

// KVStore keeps each preferences file as compact JSON text under the key
// "<appID>-<name>". Writes go straight to the medium.
type KVStore struct {
	appID string
	kv    KV
	codec codec.JSON
	log   *zap.Logger
	async *asyncSaver
	label string
	err   error
}

// NewKVStore creates a store over kv. A nil kv yields an invalid store.
func NewKVStore(appID string, kv KV, opts ...Option) *KVStore {
	o := buildOptions(opts)
	s := &KVStore{
		appID: appID,
		kv:    kv,
		log:   o.log,
		async: newAsyncSaver(o.log),
		label: fmt.Sprintf("%T", kv),
		err:   o.openErr,
	}
	if kv == nil {
		s.log.Debug("No key/value storage available for preferences")
	}
	return s
}

// StorageKey returns the medium key for a preferences file.
func (s *KVStore) StorageKey(name string) string {
	return s.appID + "-" + name
}

// Err returns the error that kept the medium from opening, if any.
func (s *KVStore) Err() error {
	return s.err
}

// IsValid reports whether the store has a medium.
func (s *KVStore) IsValid() bool {
	return s.kv != nil
}

// Location returns the medium type.
func (s *KVStore) Location() string {
	return s.label
}

// Create returns an empty file.
func (s *KVStore) Create() *prefs.File {
	return prefs.NewFile()
}

// Load reads and parses the key for name. A missing key is not an error;
// an unreadable or unparsable one is logged and treated as missing.
func (s *KVStore) Load(name string) (*prefs.File, bool) {
	if !s.IsValid() || name == "" {
		return nil, false
	}

	key := s.StorageKey(name)
	text, ok, err := s.kv.Get(key)
	if err != nil {
		s.log.Error("Error reading preferences key", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	root, err := s.codec.Unmarshal([]byte(text))
	if err != nil {
		s.log.Warn("Could not parse JSON from storage key", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return prefs.FromTable(root), true
}

// Save writes file to the medium.
func (s *KVStore) Save(name string, file *prefs.File) error {
	if !s.IsValid() {
		return nil
	}
	return s.write(name, file.Table())
}

// SaveAsync writes content to the medium in the background.
func (s *KVStore) SaveAsync(name string, content *prefs.Content, done func(error)) {
	if !s.IsValid() {
		return
	}
	s.async.dispatch(name, func() error {
		return s.write(name, content.Table())
	}, done)
}

// Wait blocks until background writes finish.
func (s *KVStore) Wait() error {
	return s.async.wait()
}

// Close closes the underlying medium.
func (s *KVStore) Close() error {
	if s.kv == nil {
		return nil
	}
	return s.kv.Close()
}

func (s *KVStore) write(name string, root value.Table) error {
	if name == "" {
		return ErrInvalidName
	}
	data, err := s.codec.Marshal(root)
	if err != nil {
		return err
	}
	if err := s.kv.Set(s.StorageKey(name), string(data)); err != nil {
		return fmt.Errorf("could not store %s: %w", s.StorageKey(name), err)
	}
	return nil
}
