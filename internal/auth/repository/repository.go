package repository

import (
	"context"
	"time"

	"session-auth-service/internal/auth/domain"
)

// SessionRepository defines persistence for sessions. Lookups return
// (nil, nil) when the session does not exist; errors are reserved for
// storage failures.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	Save(ctx context.Context, s *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	// Validate atomically marks the session validated at the given time,
	// succeeding only when it is still unvalidated and open. Returns false
	// when the conditional update matched no row, so two concurrent
	// validations cannot both pass the not-yet-validated check.
	Validate(ctx context.Context, id string, at time.Time) (bool, error)
}

// CodeValidationRepository defines persistence for verification codes.
type CodeValidationRepository interface {
	Create(ctx context.Context, c *domain.CodeValidation) error
	Save(ctx context.Context, c *domain.CodeValidation) error
	FindByID(ctx context.Context, id string) (*domain.CodeValidation, error)
	// FindByValue returns the most recently created code with the given value,
	// or nil if none exists.
	FindByValue(ctx context.Context, value string) (*domain.CodeValidation, error)
	Delete(ctx context.Context, id string) error
}
