package pref

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSurface keeps all items in one JSON object file. Each operation reads
// the file, so separate processes see each other's writes.
type FileSurface struct {
	path string
	mu   sync.Mutex
}

// NewFileSurface returns a surface backed by path. The file is created on
// first write.
func NewFileSurface(path string) *FileSurface {
	return &FileSurface{path: path}
}

// Path returns the backing file path.
func (f *FileSurface) Path() string {
	return f.path
}

// GetItem implements Surface.
func (f *FileSurface) GetItem(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

// SetItem implements Surface.
func (f *FileSurface) SetItem(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return err
	}
	items[key] = value
	return f.save(items)
}

// RemoveItem implements Surface.
func (f *FileSurface) RemoveItem(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return f.save(items)
}

func (f *FileSurface) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	items := make(map[string]string)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse storage file %s: %w", f.path, err)
	}
	return items, nil
}

func (f *FileSurface) save(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
