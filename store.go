package session

import (
	"context"
	"sync"
)

// MemoryTokenStore keeps the token in process memory. It satisfies the
// TokenStore contract for tests and ephemeral runs where persistence across
// restarts is not wanted.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemoryTokenStore returns an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Save stores the token, replacing any previous value. Saving an empty
// token reads back as absent.
func (s *MemoryTokenStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.set = token != ""
	return nil
}

// Load returns the stored token. The boolean reports whether one is present.
func (s *MemoryTokenStore) Load(ctx context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set, nil
}

// Clear removes the stored token.
func (s *MemoryTokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.set = false
	return nil
}

var _ TokenStore = (*MemoryTokenStore)(nil)
