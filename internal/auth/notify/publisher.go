package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"session-auth-service/internal/auth/domain"
	"session-auth-service/internal/events"
	"session-auth-service/internal/queue"
)

// deliveryJob is the queue message moving code delivery off the request path.
type deliveryJob struct {
	SessionID string `json:"session_id"`
}

// SessionCreatedHandler subscribes to the session-created event and publishes
// a code-delivery job for the new session.
type SessionCreatedHandler struct {
	provider queue.Provider
}

// NewSessionCreatedHandler returns a handler publishing on the given provider's
// code-delivery queue.
func NewSessionCreatedHandler(provider queue.Provider) *SessionCreatedHandler {
	return &SessionCreatedHandler{provider: provider}
}

// Handle publishes a {session_id} message on the code-delivery queue,
// creating the queue if it does not exist yet.
func (h *SessionCreatedHandler) Handle(ctx context.Context, event events.Event) error {
	created, ok := event.(domain.SessionCreated)
	if !ok {
		return fmt.Errorf("notify: unexpected event %q", event.Name())
	}
	q, ok := h.provider.Get(queue.SendCodeValidationKey)
	if !ok {
		var err error
		q, err = h.provider.Create(queue.SendCodeValidationKey)
		if err != nil {
			return err
		}
	}
	payload, err := json.Marshal(deliveryJob{SessionID: created.SessionID})
	if err != nil {
		return err
	}
	return q.Publish(ctx, payload)
}
