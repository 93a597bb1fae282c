// Package corpus holds the in-memory default document corpus used to
// answer chats that have no session of their own.
package corpus

import (
	"sync"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

// Snapshot is a swappable view of the default corpus. Reads return the
// current slice without copying; writers must replace wholesale.
type Snapshot struct {
	mu   sync.RWMutex
	docs []*domain.Document
}

func New(docs []*domain.Document) *Snapshot {
	return &Snapshot{docs: docs}
}

// Documents returns the current corpus.
func (s *Snapshot) Documents() []*domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs
}

// Set replaces the corpus.
func (s *Snapshot) Set(docs []*domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
}
