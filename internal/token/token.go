// Package token signs and verifies the opaque token strings bound to sessions.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed or its signature does not verify.
var ErrInvalidToken = errors.New("invalid token")

// Payload is the claims carried inside a signed token. ExpiresAt is nil for
// refresh tokens, which never expire.
type Payload struct {
	SessionID string     `json:"session_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// The expiry is a payload field read by the session service, not a registered
// claim: the signing primitive must verify signatures without enforcing it.
func (p Payload) GetExpirationTime() (*jwt.NumericDate, error) { return nil, nil }
func (p Payload) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (p Payload) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (p Payload) GetIssuer() (string, error)                   { return "", nil }
func (p Payload) GetSubject() (string, error)                  { return "", nil }
func (p Payload) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// Codec signs payloads into opaque strings and verifies them back (HS256, shared secret).
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec signing with the given shared secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode signs the payload and returns the opaque token string.
func (c *Codec) Encode(p Payload) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, p)
	return t.SignedString(c.secret)
}

// Decode verifies the token's signature and returns its payload. The embedded
// expiry is returned as data and is not checked here; callers enforce it and
// translate ErrInvalidToken into their unauthorized error.
func (c *Codec) Decode(tokenString string) (*Payload, error) {
	var p Payload
	t, err := jwt.ParseWithClaims(tokenString, &p, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	return &p, nil
}
