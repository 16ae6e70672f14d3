package domain

import "time"

// Event names dispatched on the in-process bus.
const (
	EventSessionCreated   = "session.created"
	EventSessionValidated = "session.validated"
	EventSessionClosed    = "session.closed"
)

// SessionCreated is dispatched after a new session is persisted at register or login.
// Its bus handler publishes the session id on the code-delivery queue.
type SessionCreated struct {
	SessionID string
	At        time.Time
}

// Name returns the event type name used for bus registration.
func (e SessionCreated) Name() string { return EventSessionCreated }

// OccurredOn returns when the event happened.
func (e SessionCreated) OccurredOn() time.Time { return e.At }

// SessionRef returns the id of the session the event is about.
func (e SessionCreated) SessionRef() string { return e.SessionID }

// SessionValidated is dispatched after a session transitions to validated.
type SessionValidated struct {
	SessionID string
	At        time.Time
}

func (e SessionValidated) Name() string          { return EventSessionValidated }
func (e SessionValidated) OccurredOn() time.Time { return e.At }
func (e SessionValidated) SessionRef() string    { return e.SessionID }

// SessionClosed is dispatched after a session is closed at logout.
type SessionClosed struct {
	SessionID string
	At        time.Time
}

func (e SessionClosed) Name() string          { return EventSessionClosed }
func (e SessionClosed) OccurredOn() time.Time { return e.At }
func (e SessionClosed) SessionRef() string    { return e.SessionID }
