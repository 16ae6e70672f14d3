// Package domain holds the auth entities: sessions, verification codes, tokens, and their events.
package domain

import "time"

// Session is a per-login authentication context progressing through
// created -> validated -> closed. A session belongs to exactly one user,
// is validated at most once, and is terminal once closed.
type Session struct {
	ID          string
	UserID      string
	ValidatedAt *time.Time // nil until the session is validated
	ClosedAt    *time.Time // nil until the session is closed; set means terminal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSession returns an unvalidated session for the given user.
func NewSession(id, userID string, now time.Time) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validated reports whether the session has been validated.
func (s *Session) Validated() bool {
	return s.ValidatedAt != nil
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	return s.ClosedAt != nil
}

// Validate marks the session as validated at the given time.
func (s *Session) Validate(now time.Time) {
	at := now
	s.ValidatedAt = &at
	s.touch(now)
}

// Close marks the session as closed at the given time. The close timestamp is
// terminal: closing an already closed session only re-touches UpdatedAt.
func (s *Session) Close(now time.Time) {
	if s.ClosedAt == nil {
		at := now
		s.ClosedAt = &at
	}
	s.touch(now)
}

func (s *Session) touch(now time.Time) {
	s.UpdatedAt = now
}
