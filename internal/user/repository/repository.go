package repository

import (
	"context"

	"session-auth-service/internal/user/domain"
)

// Repository defines persistence for users. Lookups return (nil, nil) when the
// user does not exist; errors are reserved for storage failures.
type Repository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}
