package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/classdash/core/internal/ports"
)

// FileStore keeps every entry in one JSON object on disk. Writes replace the file
// atomically so a crash never leaves a half-written document behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var errCorruptStore = errors.New("corrupt store file")

// NewFileStore creates a file-backed store. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ ports.KeyValueStore = (*FileStore)(nil)

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", false, err
	}

	value, ok := entries[key]
	return value, ok, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite()
	if err != nil {
		return err
	}

	entries[key] = value
	return s.save(entries)
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite()
	if err != nil {
		return err
	}

	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.save(entries)
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	entries := make(map[string]string)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w %s: %v", errCorruptStore, s.path, err)
	}
	return entries, nil
}

// loadForWrite treats an undecodable file as empty. The bad file is kept next to the store
// with a .corrupt suffix.
func (s *FileStore) loadForWrite() (map[string]string, error) {
	entries, err := s.load()
	if !errors.Is(err, errCorruptStore) {
		return entries, err
	}
	if err := os.Rename(s.path, s.path+".corrupt"); err != nil {
		return nil, fmt.Errorf("move corrupt store file aside: %w", err)
	}
	return make(map[string]string), nil
}

func (s *FileStore) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".classdash-store-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
