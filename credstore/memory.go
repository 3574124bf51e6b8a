package credstore

import (
	"context"
	"sync"
)

// MemoryStore keeps credentials in process memory. Used by tests and by
// ephemeral runs that should not leave a token on disk.
type MemoryStore struct {
	mu       sync.RWMutex
	creds    Credentials
	has      bool
	redirect string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored record.
func (s *MemoryStore) Load(ctx context.Context) (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.has || !s.creds.Complete() {
		return Credentials{}, ErrNoCredentials
	}
	return s.creds, nil
}

// Save stores the record.
func (s *MemoryStore) Save(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.has = true
	return nil
}

// Clear removes the record.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	s.has = false
	return nil
}

// StashRedirect records the pending OAuth2 return URI.
func (s *MemoryStore) StashRedirect(ctx context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirect = uri
	return nil
}

// TakeRedirect consumes the pending OAuth2 return URI.
func (s *MemoryStore) TakeRedirect(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uri := s.redirect
	s.redirect = ""
	return uri, nil
}
