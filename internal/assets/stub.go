package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// StubStore is an in-memory Store for development runs without an object
// storage backend. It keeps the no-overwrite contract of the real store.
type StubStore struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

var _ Store = (*StubStore)(nil)

func NewStubStore() *StubStore {
	return &StubStore{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

func (s *StubStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[key]; exists {
		return fmt.Errorf("object %q already exists", key)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = stored
	return nil
}

func (s *StubStore) PublicURL(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	return s.BaseURL + "/" + key, nil
}

// Object returns a stored object, for tests.
func (s *StubStore) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len returns the number of stored objects, for tests.
func (s *StubStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
