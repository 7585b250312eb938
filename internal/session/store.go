// Package session provides the in-memory session store and its TTL sweeper.
package session

import (
	"sync"
	"time"

	"github.com/cewiley/NACCIT-Intake/internal/domain"
)

// Store holds live sessions keyed by session id. Sessions are
// process-lifetime only; nothing survives a restart.
type Store interface {
	// Put stores or replaces a session.
	Put(s *domain.Session)

	// Get retrieves a session by id, or nil if absent.
	Get(id string) *domain.Session

	// Delete removes a session. Deleting an absent id is a no-op.
	Delete(id string)

	// Touch updates a session's idle clock. Touching an absent id is a
	// no-op. Activity updates go through the store rather than the
	// session so they synchronize with ExpiredBefore.
	Touch(id string, now time.Time)

	// ExpiredBefore returns the ids of sessions whose last activity is
	// older than the cutoff.
	ExpiredBefore(cutoff time.Time) []string

	// Len returns the number of live sessions.
	Len() int

	// Lock acquires the per-session mutex and returns its unlock func.
	// Every read-modify-write of a session must run between Lock and
	// unlock; operations on different ids proceed independently.
	Lock(id string) (unlock func())
}

// MemoryStore implements Store with a mutex-guarded map plus a lazily
// populated per-session mutex map. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.Session
	locks sync.Map
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]*domain.Session)}
}

// Put stores or replaces a session.
func (s *MemoryStore) Put(sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = sess
}

// Get retrieves a session by id, or nil if absent.
func (s *MemoryStore) Get(id string) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[id]
}

// Delete removes a session and its lock entry.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	s.locks.Delete(id)
}

// Touch updates the session's idle clock under the store lock, so the
// TTL sweep never reads LastActiveAt concurrently with a write.
func (s *MemoryStore) Touch(id string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.data[id]; ok {
		sess.Touch(now)
	}
}

// Lock acquires the per-session mutex for id.
func (s *MemoryStore) Lock(id string) func() {
	l, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := l.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ExpiredBefore returns ids of sessions idle since before the cutoff.
func (s *MemoryStore) ExpiredBefore(cutoff time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, sess := range s.data {
		if sess.LastActiveAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
