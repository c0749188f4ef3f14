package storage

import (
	"context"
	"sync"
)

// MemoryStore implements SecretStore in memory. It backs tests and
// session-scoped embedding shells that want no on-disk persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewMemoryStore creates an empty in-memory secret store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[string]string)}
}

// Get returns the stored value for name, or "" if none is stored.
func (s *MemoryStore) Get(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secrets[name], nil
}

// Set stores value under name, replacing any previous value.
func (s *MemoryStore) Set(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[name] = value
	return nil
}

// Remove deletes the value stored under name.
func (s *MemoryStore) Remove(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, name)
	return nil
}
