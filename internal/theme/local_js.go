//go:build js

package theme

import (
	"errors"
	"fmt"
	"syscall/js"
)

var ErrNoLocalStorage = errors.New("theme: localStorage unavailable")

// LocalStorage is a KV over the browser's window.localStorage, so the flag
// survives reloads the way the page keeps it.
type LocalStorage struct {
	store js.Value
}

func NewLocalStorage() (*LocalStorage, error) {
	s := js.Global().Get("localStorage")
	if s.IsUndefined() || s.IsNull() {
		return nil, ErrNoLocalStorage
	}
	return &LocalStorage{store: s}, nil
}

func (l *LocalStorage) Get(key string) (string, bool) {
	v := l.store.Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return "", false
	}
	return v.String(), true
}

// Set reports a thrown quota or privacy error instead of panicking.
func (l *LocalStorage) Set(key, value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("theme: localStorage: %v", r)
		}
	}()
	l.store.Call("setItem", key, value)
	return nil
}
