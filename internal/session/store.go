// Package session maps a user to at most one in-progress workflow draft.
package session

import "sync"

// Draft is any per-user conversational state held by the store. The concrete
// types live in the workflow package; the store treats them opaquely.
type Draft interface {
	Kind() string
}

// Store holds at most one active draft per user. Set overwrites
// unconditionally; starting a new workflow replaces whatever was there.
type Store interface {
	Get(userID string) (Draft, bool)
	Set(userID string, draft Draft)
	Clear(userID string)
	Len() int
}

// MemoryStore is the in-memory Store used in production. State lives for
// the process lifetime; there is no expiry.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]Draft),
	}
}

// Get returns the active draft for a user, if any.
func (s *MemoryStore) Get(userID string) (Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[userID]
	return d, ok
}

// Set stores a draft for a user, overwriting any existing one.
func (s *MemoryStore) Set(userID string, draft Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = draft
}

// Clear removes the user's draft, if any.
func (s *MemoryStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
}

// Len reports how many users currently have a draft.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}
