package store

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a paste doesn't exist or has expired.
var ErrNotFound = errors.New("paste not found")

// Store defines the interface for paste storage operations.
type Store interface {
	// Get retrieves a paste by ID. Returns ErrNotFound if it doesn't exist.
	Get(id string) (string, error)
	// Create attempts to store a paste with the given ID. A zero ttl never expires.
	// Returns true if created, false if ID already exists (collision).
	Create(id string, body []byte, ttl time.Duration) (bool, error)
}

type entry struct {
	body      string
	expiresAt time.Time
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get retrieves a paste by ID.
func (s *MemoryStore) Get(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return "", ErrNotFound
	}
	return e.body, nil
}

// Create stores a paste unless a live paste already holds the ID.
func (s *MemoryStore) Create(id string, body []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(id); ok {
		return false, nil
	}
	e := entry{body: string(body)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[id] = e
	return true, nil
}

// ExpiresAt reports when a paste expires. The zero time means never.
func (s *MemoryStore) ExpiresAt(id string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return e.expiresAt, nil
}

// Len returns the number of live pastes.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id := range s.entries {
		if _, ok := s.lookup(id); ok {
			n++
		}
	}
	return n
}

// lookup returns a live entry, dropping it if it has expired. Callers hold mu.
func (s *MemoryStore) lookup(id string) (entry, bool) {
	e, ok := s.entries[id]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		return entry{}, false
	}
	return e, true
}
