package session

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a process-local map. This is the
// default backend: sessions are intentionally process-lifetime only.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemoryStore initialises an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Get implements the Store interface.
func (s *MemoryStore) Get(_ context.Context, userKey string) (Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[strings.TrimSpace(userKey)]
	return sess, ok, nil
}

// SaveWallet implements the Store interface. A rejected address leaves
// any existing session untouched.
func (s *MemoryStore) SaveWallet(_ context.Context, userKey, address string) (Session, error) {
	address = strings.TrimSpace(address)
	if err := ValidateAddress(address); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := Session{
		UserKey:       strings.TrimSpace(userKey),
		WalletAddress: address,
		SavedAt:       s.now().Unix(),
	}
	s.sessions[sess.UserKey] = sess
	return sess, nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
