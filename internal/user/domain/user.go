// Package domain holds the user entity.
package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrInvalidEmail is returned when an email does not look like an address.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidName is returned when a name is empty after trimming.
	ErrInvalidName = errors.New("name is required")

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// User is an account holder. Users own sessions; they are created once at
// register and looked up by email at login.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser validates name and email and returns a User. The email is lowercased
// and both fields are trimmed before validation.
func NewUser(id, name, email string, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, ErrInvalidName
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateEmail reports whether email looks like an address. Returns
// ErrInvalidEmail when it does not.
func ValidateEmail(email string) error {
	if email == "" || !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
