package repository

import (
	"context"

	"session-auth-service/internal/audit/domain"
)

// Repository defines persistence for audit events.
type Repository interface {
	Create(ctx context.Context, e *domain.AuditEvent) error
	ListBySession(ctx context.Context, sessionID string, limit int32) ([]*domain.AuditEvent, error)
}
