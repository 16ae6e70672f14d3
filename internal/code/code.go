// Package code issues and checks the 6-digit verification codes delivered out of band.
package code

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"

	"session-auth-service/internal/auth/domain"
)

// DefaultTTL is the verification code lifetime used when the caller passes no override.
const DefaultTTL = time.Hour

var (
	// ErrInvalidCode is returned when a code value is not exactly 6 ASCII digits.
	ErrInvalidCode = errors.New("invalid verification code")

	codePattern = regexp.MustCompile(`^[0-9]{6}$`)
	codeMax     = big.NewInt(1_000_000)
)

// Generate returns a uniformly random 6-digit code string (e.g. "042317").
// The code is a convenience proof of channel ownership, not a cryptographic secret.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeMax)
	if err != nil {
		return "", err
	}
	digits := n.String()
	for len(digits) < 6 {
		digits = "0" + digits
	}
	return digits, nil
}

// IsValid reports whether value is exactly 6 ASCII digits.
func IsValid(value string) bool {
	return codePattern.MatchString(value)
}

// New builds a CodeValidation for the session with a freshly generated value.
// ttl <= 0 falls back to DefaultTTL.
func New(sessionID string, now time.Time, ttl time.Duration) (*domain.CodeValidation, error) {
	value, err := Generate()
	if err != nil {
		return nil, err
	}
	return From(sessionID, value, now, ttl)
}

// From builds a CodeValidation for the session with the given value.
// Returns ErrInvalidCode when value is not 6 digits.
func From(sessionID, value string, now time.Time, ttl time.Duration) (*domain.CodeValidation, error) {
	if !IsValid(value) {
		return nil, ErrInvalidCode
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &domain.CodeValidation{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Value:     value,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}
