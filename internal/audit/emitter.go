// Package audit exports session lifecycle events to an external trail.
package audit

import (
	"context"

	"session-auth-service/internal/audit/domain"
)

// Emitter emits audit events (e.g. to Kafka). Callers use it best-effort:
// log and ignore errors.
type Emitter interface {
	// Emit sends a single audit event. Implementations may block briefly;
	// call from a goroutine if needed.
	Emit(ctx context.Context, event *domain.AuditEvent) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}
