package domain

import "time"

// CodeValidation is a time-boxed 6-digit code proving out-of-band receipt for a session.
type CodeValidation struct {
	ID        string
	SessionID string
	Value     string     // exactly 6 ASCII digits
	UsedAt    *time.Time // nil until consumed; not set by the current flow
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code's expiry is strictly before now.
func (c *CodeValidation) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

// Used reports whether the code has been marked as consumed.
func (c *CodeValidation) Used() bool {
	return c.UsedAt != nil
}
