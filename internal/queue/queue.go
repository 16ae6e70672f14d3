// Package queue provides named FIFO queues with pluggable in-memory and
// redis-backed implementations, used to move code delivery off the request path.
package queue

import "context"

// Keys of the queues used by the auth flow.
const (
	// SendCodeValidationKey is the queue carrying {session_id} messages for code delivery.
	SendCodeValidationKey = "send-code-validation"
)

// Handler consumes one queued message payload.
type Handler interface {
	Handle(ctx context.Context, payload []byte) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, payload []byte) error {
	return f(ctx, payload)
}

// Queue is a named, ordered, at-least-once message channel. Handlers must be
// subscribed before Process is called. Ordering is FIFO within one key; there
// is no ordering across keys.
type Queue interface {
	// Key returns the queue's name.
	Key() string
	// Publish enqueues a message. If the queue is not yet processing, the
	// message buffers until Process is called.
	Publish(ctx context.Context, payload []byte) error
	// Subscribe registers a handler. Must happen before Process.
	Subscribe(h Handler)
	// Process begins draining the queue. Idempotent: calling it again has no
	// additional effect. At most one job per key is in flight at a time.
	Process(ctx context.Context) error
}

// Provider creates and looks up queues by key.
type Provider interface {
	// Create returns the queue for key, creating it if needed.
	Create(key string) (Queue, error)
	// Get returns the queue for key, or ok=false when it does not exist.
	// Get never creates.
	Get(key string) (Queue, bool)
}
