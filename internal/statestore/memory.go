package statestore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process Store used in development and tests, and as
// the fallback when no Redis address is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	state     LiveState
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     liveStateTTL,
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, state LiveState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state.SessionURL] = memoryEntry{
		state:     state,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionURL string) (*LiveState, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionURL]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	state := entry.state
	return &state, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionURL)
	return nil
}
