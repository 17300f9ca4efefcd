package kv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// FileName is the document the file backend keeps in its data directory.
const FileName = "kv.json"

// fileEntry is one key in the on-disk document. Value is base64 encoded by
// encoding/json.
type fileEntry struct {
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// File is a KVStore backed by a single JSON document. Every Set rewrites
// the document atomically, so a crash leaves either the old or the new
// contents on disk.
type File struct {
	mu     sync.RWMutex
	path   string
	data   map[string]fileEntry
	closed bool
}

// OpenFile loads the store kept in dataDir, creating the directory if
// needed. A missing document is an empty store.
func OpenFile(dataDir string) (*File, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	f := &File{
		path: filepath.Join(dataDir, FileName),
		data: make(map[string]fileEntry),
	}
	b, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &f.data); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", f.path, err)
		}
	}
	if f.data == nil {
		f.data = make(map[string]fileEntry)
	}
	return f, nil
}

// Path returns the location of the backing document.
func (f *File) Path() string {
	return f.path
}

// Get returns a copy of the value stored under key.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, types.ErrInvalidKey
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, types.ErrStoreClosed
	}
	e, ok := f.data[key]
	if !ok {
		return nil, types.ErrNotFound
	}
	return slices.Clone(e.Value), nil
}

// Set stores value under key and persists the document. On a write failure
// the in-memory state is left unchanged.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return types.ErrStoreClosed
	}

	next := maps.Clone(f.data)
	next[key] = fileEntry{Value: slices.Clone(value), UpdatedAt: time.Now().UTC()}
	b, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f.path, err)
	}
	if err := writeFileAtomic(f.path, b); err != nil {
		return err
	}
	f.data = next
	return nil
}

// Close marks the store closed. Idempotent.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// writeFileAtomic writes b to path using the temp-file, fsync, rename
// pattern.
func writeFileAtomic(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing newline: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
