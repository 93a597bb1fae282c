package domain

import (
	"fmt"
	"time"
)

// SessionStatus represents the lifecycle state of an ingestion session
type SessionStatus string

const (
	SessionStatusPending SessionStatus = "pending"
	SessionStatusReady   SessionStatus = "ready"
)

// Session represents an isolated, time-bounded corpus built for one ad-hoc
// ingestion request. Docs is written exactly once, when the background
// ingestion completes, and is read-only afterwards.
type Session struct {
	ID        string
	Docs      []*Document
	CreatedAt time.Time
	Status    SessionStatus
}

// ValidateSession validates a Session instance
func ValidateSession(s *Session) error {
	if s == nil {
		return fmt.Errorf("session cannot be nil")
	}

	if s.ID == "" {
		return fmt.Errorf("session ID is required")
	}

	if !isValidSessionStatus(s.Status) {
		return fmt.Errorf("session Status is invalid: %s", s.Status)
	}

	return nil
}

func isValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionStatusPending, SessionStatusReady:
		return true
	}
	return false
}
