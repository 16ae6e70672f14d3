package repository

import (
	"context"
	"sync"
	"time"

	"session-auth-service/internal/auth/domain"
)

// MemorySessionRepository is an in-memory SessionRepository implementation
// used in tests and when no database is configured.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewMemorySessionRepository returns an empty in-memory session repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]domain.Session)}
}

// Create stores a copy of the session.
func (r *MemorySessionRepository) Create(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

// Save overwrites the stored session.
func (r *MemorySessionRepository) Save(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

// FindByID returns the session for id, or nil if not found.
func (r *MemorySessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return &s, nil
	}
	return nil, nil
}

// Delete removes the session.
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Validate atomically marks the session validated under the repository lock,
// succeeding only when it is still unvalidated and open.
func (r *MemorySessionRepository) Validate(ctx context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.Validated() || s.Closed() {
		return false, nil
	}
	s.Validate(at)
	r.sessions[id] = s
	return true, nil
}

// MemoryCodeValidationRepository is an in-memory CodeValidationRepository
// implementation used in tests and when no database is configured.
type MemoryCodeValidationRepository struct {
	mu    sync.Mutex
	codes map[string]domain.CodeValidation
	order []string // ids in creation order, newest last
}

// NewMemoryCodeValidationRepository returns an empty in-memory code repository.
func NewMemoryCodeValidationRepository() *MemoryCodeValidationRepository {
	return &MemoryCodeValidationRepository{codes: make(map[string]domain.CodeValidation)}
}

// Create stores a copy of the code validation.
func (r *MemoryCodeValidationRepository) Create(ctx context.Context, c *domain.CodeValidation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

// Save overwrites the stored code validation.
func (r *MemoryCodeValidationRepository) Save(ctx context.Context, c *domain.CodeValidation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[c.ID] = *c
	return nil
}

// FindByID returns the code validation for id, or nil if not found.
func (r *MemoryCodeValidationRepository) FindByID(ctx context.Context, id string) (*domain.CodeValidation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.codes[id]; ok {
		return &c, nil
	}
	return nil, nil
}

// FindByValue returns the most recently created code with the given value, or nil if none exists.
func (r *MemoryCodeValidationRepository) FindByValue(ctx context.Context, value string) (*domain.CodeValidation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		if c, ok := r.codes[r.order[i]]; ok && c.Value == value {
			return &c, nil
		}
	}
	return nil, nil
}

// Delete removes the code validation.
func (r *MemoryCodeValidationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, id)
	return nil
}
