// Package notify delivers verification codes: a bus handler that enqueues
// delivery jobs, the queue consumer that issues codes, and the notification
// channels used to send them.
package notify

import (
	"context"
	"log"
	"sync"
)

// Notifier sends a rendered notification to a recipient. Delivery is
// best-effort; the dispatch handler does not confirm or retry it.
type Notifier interface {
	Send(ctx context.Context, to, head, body string) error
}

// LogNotifier writes notifications to the process log. Default channel in
// development, where no delivery provider is configured.
type LogNotifier struct{}

// Send logs the notification.
func (LogNotifier) Send(ctx context.Context, to, head, body string) error {
	log.Printf("notify: to=%s head=%q body=%q", to, head, body)
	return nil
}

// Message is a notification captured by MemoryNotifier.
type Message struct {
	To   string
	Head string
	Body string
}

// MemoryNotifier records notifications in memory for tests.
type MemoryNotifier struct {
	mu   sync.Mutex
	sent []Message
}

// NewMemoryNotifier returns an empty MemoryNotifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

// Send records the notification.
func (n *MemoryNotifier) Send(ctx context.Context, to, head, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Message{To: to, Head: head, Body: body})
	return nil
}

// Sent returns a copy of the recorded notifications in send order.
func (n *MemoryNotifier) Sent() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Message, len(n.sent))
	copy(out, n.sent)
	return out
}
