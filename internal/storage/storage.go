package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// BlobStore is the narrow get/set-named-blob seam the edit overlay persists
// through. The browser build of the viewer uses localStorage; here a file
// or an in-memory map stands in.
type BlobStore interface {
	// Get returns the blob and whether it exists. A read failure is
	// reported, but callers are expected to degrade to "no blob present".
	Get(name string) ([]byte, bool, error)
	Put(name string, data []byte) error
}

// FileStore keeps each blob as a file under a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Get(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, true, nil
}

func (s *FileStore) Put(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// MemStore is an in-memory BlobStore for tests and ephemeral sessions.
type MemStore struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

func NewMemStore() *MemStore {
	return &MemStore{
		blobs: make(map[string][]byte),
	}
}

func (s *MemStore) Get(name string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	return data, ok, nil
}

func (s *MemStore) Put(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = data
	return nil
}
