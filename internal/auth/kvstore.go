package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
)

// MemoryKV is an in-process KVStore, used in tests and for ephemeral
// sessions.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (s *MemoryKV) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryKV) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileKV persists the session as a JSON map on disk, so a CLI session
// survives process restarts the way a browser session survives reloads.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV creates a file-backed store at path, creating the parent
// directory if needed.
func NewFileKV(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "failed to create session directory")
	}
	return &FileKV{path: path}, nil
}

func (s *FileKV) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	v, ok := values[key]
	return v, ok
}

func (s *FileKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	values[key] = value
	return s.save(values)
}

func (s *FileKV) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	delete(values, key)
	return s.save(values)
}

func (s *FileKV) load() map[string]string {
	values := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	// A corrupt file reads as empty; the session just looks logged out.
	_ = json.Unmarshal(raw, &values)
	return values
}

func (s *FileKV) save(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "failed to encode session file")
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}
	return nil
}
