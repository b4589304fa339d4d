package registry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/zot/prefs/internal/codec"
	"github.com/zot/prefs/internal/config"
	"github.com/zot/prefs/internal/store"
)

// FromConfig creates a registry whose store is described by cfg. A medium
// that cannot be opened leaves the registry without a valid store, and the
// registry's startup warning carries the medium's error.
func FromConfig(cfg *config.Config, log *zap.Logger) (*Preferences, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s, err := OpenStore(cfg, log)
	if err != nil {
		return nil, err
	}
	return New(cfg.App.ID, WithStore(s), WithLogger(log)), nil
}

// OpenStore builds the store selected by cfg.Store.
func OpenStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	id := cfg.App.ID
	if cfg.Store.Backend == "kv" {
		kv, err := store.OpenKV(cfg.Store.Medium, cfg.Store.Path, cfg.Store.URL)
		if err != nil {
			err = fmt.Errorf("could not open %s medium: %w", cfg.Store.Medium, err)
			return store.NewKVStore(id, nil, store.WithLogger(log), store.WithOpenError(err)), nil
		}
		return store.NewKVStore(id, kv, store.WithLogger(log)), nil
	}

	c, err := codec.ByName(cfg.Store.Format)
	if err != nil {
		return nil, err
	}
	opts := []store.Option{
		store.WithDir(cfg.Store.Dir),
		store.WithCodec(c),
		store.WithLogger(log),
	}
	if cfg.Store.Backend == "fs" {
		return store.NewFSStore(id, opts...), nil
	}
	return store.Default(id, opts...), nil
}
