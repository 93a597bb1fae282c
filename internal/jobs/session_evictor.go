package jobs

import (
	"context"
	"log"
	"time"
)

// SessionEvicter is the session-store surface the evictor drives.
type SessionEvicter interface {
	Evict(now time.Time) int
}

// SessionEvictor drops expired sessions on each tick.
type SessionEvictor struct {
	store SessionEvicter
	now   func() time.Time
}

// NewSessionEvictor creates a SessionEvictor. A nil clock uses
// time.Now.
func NewSessionEvictor(store SessionEvicter, now func() time.Time) *SessionEvictor {
	if now == nil {
		now = time.Now
	}
	return &SessionEvictor{store: store, now: now}
}

// Run implements the Task interface.
func (e *SessionEvictor) Run(_ context.Context) error {
	if evicted := e.store.Evict(e.now()); evicted > 0 {
		log.Printf("jobs: evicted %d expired sessions", evicted)
	}
	return nil
}
