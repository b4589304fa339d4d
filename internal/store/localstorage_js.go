//go:build js && wasm

package store

import (
	"errors"
	"fmt"
	"syscall/js"

	"go.uber.org/zap"
)

// LocalStorageKV is a KV medium over the browser's window.localStorage.
type LocalStorageKV struct {
	storage js.Value
}

// NewLocalStorageKV binds to window.localStorage. It fails outside a
// browser window or when storage is disabled.
func NewLocalStorageKV() (kv *LocalStorageKV, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("could not access localStorage: %v", r)
		}
	}()

	window := js.Global().Get("window")
	if window.IsUndefined() || window.IsNull() {
		return nil, errors.New("no window object")
	}
	storage := window.Get("localStorage")
	if storage.IsUndefined() || storage.IsNull() {
		return nil, errors.New("localStorage not available")
	}
	return &LocalStorageKV{storage: storage}, nil
}

// Get reads key from localStorage.
func (l *LocalStorageKV) Get(key string) (s string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("localStorage.getItem: %v", r)
		}
	}()

	v := l.storage.Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return "", false, nil
	}
	return v.String(), true, nil
}

// Set can fail when the storage quota is exceeded.
func (l *LocalStorageKV) Set(key, value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("localStorage.setItem: %v", r)
		}
	}()

	l.storage.Call("setItem", key, value)
	return nil
}

// Close does nothing; localStorage outlives the store.
func (l *LocalStorageKV) Close() error {
	return nil
}

func openLocalStorage() (KV, error) {
	return NewLocalStorageKV()
}

// Default returns the platform's default store: localStorage in the browser.
func Default(appID string, opts ...Option) Store {
	o := buildOptions(opts)
	kv, err := NewLocalStorageKV()
	if err != nil {
		o.log.Debug("Could not open localStorage", zap.Error(err))
		return NewKVStore(appID, nil, opts...)
	}
	return NewKVStore(appID, kv, opts...)
}
