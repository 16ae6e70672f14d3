package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditdomain "session-auth-service/internal/audit/domain"
	"session-auth-service/internal/events"
)

// sessionEvent is implemented by the lifecycle events carrying a session id.
type sessionEvent interface {
	events.Event
	SessionRef() string
}

// LifecycleHandler subscribes to session lifecycle events and exports them as
// audit events. Export is best-effort and asynchronous: Handle never fails the
// dispatching use-case.
type LifecycleHandler struct {
	emitter Emitter
}

// NewLifecycleHandler returns a bus handler exporting through emitter.
func NewLifecycleHandler(emitter Emitter) *LifecycleHandler {
	return &LifecycleHandler{emitter: emitter}
}

// Handle exports one lifecycle event. Always returns nil.
func (h *LifecycleHandler) Handle(ctx context.Context, event events.Event) error {
	se, ok := event.(sessionEvent)
	if !ok {
		return nil
	}
	EmitAsync(h.emitter, &auditdomain.AuditEvent{
		ID:        uuid.New().String(),
		Action:    event.Name(),
		SessionID: se.SessionRef(),
		CreatedAt: time.Now().UTC(),
	})
	return nil
}
