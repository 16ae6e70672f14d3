// Package events provides the in-process synchronous domain-event bus.
package events

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Event is an in-process notification of a completed state change.
type Event interface {
	// Name returns the event type name used for handler registration.
	Name() string
	// OccurredOn returns when the event happened.
	OccurredOn() time.Time
}

// Handler consumes a dispatched event. A handler error propagates to the
// dispatching use-case; the already-committed write is not rolled back.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus maps event type names to ordered handler lists. It is owned by the
// composition root, populated once at bootstrap, and read-mostly afterwards.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Register subscribes the handler to the named event type.
func (b *Bus) Register(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Dispatch delivers each event to all handlers subscribed to its name,
// invoking them concurrently and waiting for all before moving to the next
// event. The first handler error cancels the remaining handlers for that
// event and is returned to the caller. Events with no handlers are skipped.
func (b *Bus) Dispatch(ctx context.Context, evts ...Event) error {
	for _, evt := range evts {
		b.mu.RLock()
		hs := b.handlers[evt.Name()]
		b.mu.RUnlock()
		if len(hs) == 0 {
			continue
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, h := range hs {
			h := h
			g.Go(func() error {
				return h.Handle(gctx, evt)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all registered handlers. Intended for test isolation only.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]Handler)
}
