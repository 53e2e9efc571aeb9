package redirect

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store implementation suitable for tests and
// single-process deployments. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	paths map[string]string
}

// NewMemoryStore creates an empty in-memory redirect store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{paths: make(map[string]string)}
}

// Put stores the redirect path for the given key.
func (s *MemoryStore) Put(_ context.Context, key, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[key] = path
	return nil
}

// Take returns the stored path and removes it. Missing keys return "".
func (s *MemoryStore) Take(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.paths[key]
	if !ok {
		return "", nil
	}
	delete(s.paths, key)
	return path, nil
}
