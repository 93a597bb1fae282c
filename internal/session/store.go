// Package session holds per-user ingestion corpora in memory with
// time-based eviction. Each session is written once, when its crawl
// finishes, and read-only afterwards.
package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

// DefaultTTL is how long a session survives after its last write.
const DefaultTTL = 30 * time.Minute

// Clock supplies the current time; injectable for tests.
type Clock func() time.Time

// Store is a keyed in-memory session store. Eviction is an explicit
// operation driven by the caller (a periodic job in production), not an
// internal timer.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	ttl      time.Duration
	now      Clock
}

// NewStore creates a Store. Zero ttl falls back to DefaultTTL; a nil
// clock uses time.Now.
func NewStore(ttl time.Duration, now Clock) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		now:      now,
	}
}

// Create registers a new pending session and returns its ID.
func (s *Store) Create() string {
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &domain.Session{
		ID:        id,
		CreatedAt: s.now(),
		Status:    domain.SessionStatusPending,
	}
	return id
}

// Get returns a snapshot of the session, or ErrSessionNotFound.
func (s *Store) Get(id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	snapshot := *sess
	return &snapshot, nil
}

// SetReady attaches the indexed corpus to a session and marks it
// ready. The retention window restarts from now, so a slow crawl does
// not eat into the session's usable lifetime.
func (s *Store) SetReady(id string, docs []*domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.Docs = docs
	sess.Status = domain.SessionStatusReady
	sess.CreatedAt = s.now()
	return nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Evict removes sessions older than the retention window as of now and
// returns how many were dropped.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.ttl {
			delete(s.sessions, id)
			evicted++
			log.Printf("session: evicted %s", id)
		}
	}
	return evicted
}

// Len reports how many sessions are live.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
