// Package domain holds the audit trail entry type.
package domain

import "time"

// AuditEvent is one session lifecycle fact exported for the audit trail
// (e.g. session.created, session.validated, session.closed).
type AuditEvent struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
