//go:build !(js && wasm)

package store

import "errors"

func openLocalStorage() (KV, error) {
	return nil, errors.New("localStorage is only available in the browser")
}

// Default returns the platform's default store: a directory under the OS
// preferences location.
func Default(appID string, opts ...Option) Store {
	return NewFSStore(appID, opts...)
}
