package supabase

import (
	"context"
	"sync"
	"time"
)

// Tokens is one persisted token pair. A zero value means nobody is signed in.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IsZero reports whether no session is stored.
func (t Tokens) IsZero() bool {
	return t.AccessToken == ""
}

// TokenStore persists the token pair between requests. Implementations must
// be safe for concurrent use; Load on an empty store returns a zero Tokens
// value and no error.
type TokenStore interface {
	Save(ctx context.Context, tokens Tokens) error
	Load(ctx context.Context) (Tokens, error)
	Clear(ctx context.Context) error
}

// MemoryTokenStore keeps the token pair in process memory. It is the default
// store and the right one for a single client instance per process.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens Tokens
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Save(_ context.Context, tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	return nil
}

func (s *MemoryTokenStore) Load(_ context.Context) (Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, nil
}

func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = Tokens{}
	return nil
}
