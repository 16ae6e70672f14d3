package repository

import (
	"context"
	"sync"

	"session-auth-service/internal/user/domain"
)

// MemoryRepository is an in-memory Repository implementation used in tests and
// when no database is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryRepository returns an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]domain.User)}
}

// FindByID returns the user for id, or nil if not found.
func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// FindByEmail returns the user for email, or nil if not found.
func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// Create stores a copy of the user.
func (r *MemoryRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}
