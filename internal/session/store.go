// Package session keeps reader settings for the life of the process.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stats holds store usage counters.
type Stats struct {
	Items      int
	Hits       int64
	Misses     int64
	Writes     int64
	LastAccess time.Time
}

// Store is an in-memory key/value store scoped to one session. Nothing is
// written to disk; the content is lost when the process exits.
type Store struct {
	id      string
	started time.Time

	mu    sync.RWMutex
	items map[string][]byte
	stats Stats
}

// NewStore creates an empty store with a fresh session id.
func NewStore() *Store {
	return &Store{
		id:      uuid.NewString(),
		started: time.Now(),
		items:   make(map[string][]byte),
	}
}

// ID returns the session id.
func (s *Store) ID() string {
	return s.id
}

// Started returns when the session began.
func (s *Store) Started() time.Time {
	return s.started
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.LastAccess = time.Now()
	v, ok := s.items[key]
	if !ok {
		s.stats.Misses++
		return nil, false
	}
	s.stats.Hits++
	return append([]byte(nil), v...), true
}

// Put stores a copy of value under key.
func (s *Store) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = append([]byte(nil), value...)
	s.stats.Writes++
	s.stats.LastAccess = time.Now()
}

// Delete removes key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Stats returns a snapshot of the usage counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.stats
	st.Items = len(s.items)
	return st
}
