package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// KV is a flat string key-value store, the local stand-in for the browser's
// localStorage.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// FileKV keeps its map in a YAML file. Every Set rewrites the file.
type FileKV struct {
	path string
	mu   sync.Mutex
	data map[string]string
}

// OpenFile loads path if it exists. A missing file is an empty store.
func OpenFile(path string) (*FileKV, error) {
	kv := &FileKV{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return kv, nil
		}
		return nil, fmt.Errorf("theme: read store: %w", err)
	}
	if err := yaml.Unmarshal(raw, &kv.data); err != nil {
		return nil, fmt.Errorf("theme: parse store %s: %w", path, err)
	}
	if kv.data == nil {
		kv.data = make(map[string]string)
	}
	return kv, nil
}

func (kv *FileKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok
}

func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.data[key] = value
	raw, err := yaml.Marshal(kv.data)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(kv.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("theme: create store dir: %w", err)
		}
	}
	return os.WriteFile(kv.path, raw, 0644)
}

// MemKV is an in-process store for browser builds and tests.
type MemKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (kv *MemKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok
}

func (kv *MemKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}
