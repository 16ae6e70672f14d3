package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSONFormat selects the key style used when serializing entities. The format
// is always chosen explicitly by the caller; there is no implicit default.
type JSONFormat string

const (
	// SnakeCase serializes with snake_case keys (the wire format of the HTTP API).
	SnakeCase JSONFormat = "snake_case"
	// CamelCase serializes with camelCase keys.
	CamelCase JSONFormat = "camelCase"
)

type snakeSession struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type camelSession struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	ValidatedAt *time.Time `json:"validatedAt,omitempty"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MarshalAs serializes the session with the given key format.
// Returns an error for unknown formats.
func (s *Session) MarshalAs(format JSONFormat) ([]byte, error) {
	switch format {
	case SnakeCase:
		return json.Marshal(snakeSession{
			ID: s.ID, UserID: s.UserID,
			ValidatedAt: s.ValidatedAt, ClosedAt: s.ClosedAt,
			CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
		})
	case CamelCase:
		return json.Marshal(camelSession{
			ID: s.ID, UserID: s.UserID,
			ValidatedAt: s.ValidatedAt, ClosedAt: s.ClosedAt,
			CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
		})
	default:
		return nil, fmt.Errorf("unknown JSON format %q", format)
	}
}

type snakeCodeValidation struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Value     string     `json:"value"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type camelCodeValidation struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId"`
	Value     string     `json:"value"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	ExpiresAt time.Time  `json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// MarshalAs serializes the code validation with the given key format.
// Returns an error for unknown formats.
func (c *CodeValidation) MarshalAs(format JSONFormat) ([]byte, error) {
	switch format {
	case SnakeCase:
		return json.Marshal(snakeCodeValidation{
			ID: c.ID, SessionID: c.SessionID, Value: c.Value,
			UsedAt: c.UsedAt, ExpiresAt: c.ExpiresAt, CreatedAt: c.CreatedAt,
		})
	case CamelCase:
		return json.Marshal(camelCodeValidation{
			ID: c.ID, SessionID: c.SessionID, Value: c.Value,
			UsedAt: c.UsedAt, ExpiresAt: c.ExpiresAt, CreatedAt: c.CreatedAt,
		})
	default:
		return nil, fmt.Errorf("unknown JSON format %q", format)
	}
}
