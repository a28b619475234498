package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is a string key/value store, the shape of browser local storage.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	// SetMany writes all values in one step; either all land or none do.
	SetMany(values map[string]string) error
	Remove(keys ...string) error
}

// FileStorage keeps all keys in one JSON object on disk. Every write
// rewrites the file through a temp file and rename, and the in-memory copy
// only changes once the rename succeeds.
type FileStorage struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenFileStorage loads path, creating parent directories as needed. A
// missing file starts empty; an unreadable one is an error.
func OpenFileStorage(path string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	fs := &FileStorage{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fs.values); err != nil {
			return nil, fmt.Errorf("decode storage %s: %w", path, err)
		}
	}
	return fs, nil
}

func (fs *FileStorage) Path() string { return fs.path }

func (fs *FileStorage) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.values[key]
	return v, ok
}

func (fs *FileStorage) Set(key, value string) error {
	return fs.SetMany(map[string]string{key: value})
}

func (fs *FileStorage) SetMany(values map[string]string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.apply(func(next map[string]string) {
		for k, v := range values {
			next[k] = v
		}
	})
}

func (fs *FileStorage) Remove(keys ...string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.apply(func(next map[string]string) {
		for _, k := range keys {
			delete(next, k)
		}
	})
}

// apply edits a copy of the values and keeps it only once it is on disk.
// Must be called with mu held.
func (fs *FileStorage) apply(edit func(map[string]string)) error {
	next := make(map[string]string, len(fs.values))
	for k, v := range fs.values {
		next[k] = v
	}
	edit(next)
	if err := fs.write(next); err != nil {
		return err
	}
	fs.values = next
	return nil
}

func (fs *FileStorage) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".progress-*")
	if err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) SetMany(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryStorage) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
