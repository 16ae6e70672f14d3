package domain

import "time"

// Token is a signed opaque string bound to a session. Tokens are never
// persisted; they are minted fresh on every issuance or refresh.
// A nil ExpiresAt means the token never expires (refresh tokens).
type Token struct {
	Value     string
	SessionID string
	ExpiresAt *time.Time
}

// Expired reports whether the token's expiry is strictly before now.
// A token without expiry is never expired.
func (t Token) Expired(now time.Time) bool {
	if t.ExpiresAt == nil {
		return false
	}
	return t.ExpiresAt.Before(now)
}

// TokenPair holds the access and refresh tokens minted for a validated session.
type TokenPair struct {
	Access  Token
	Refresh Token
}
