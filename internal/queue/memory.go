package queue

import (
	"context"
	"log"
	"sync"
)

// MemoryQueue is a single-process FIFO queue. Messages published before
// Process buffer; once processing, each publish synchronously drains the
// backlog through all subscribed handlers. Jobs whose handlers fail are
// retained on a failed list for inspection instead of being lost.
type MemoryQueue struct {
	key string

	mu         sync.Mutex
	handlers   []Handler
	jobs       [][]byte
	failed     [][]byte
	processing bool
	draining   bool
}

// NewMemoryQueue returns an empty in-memory queue with the given key.
func NewMemoryQueue(key string) *MemoryQueue {
	return &MemoryQueue{key: key}
}

// Key returns the queue's name.
func (q *MemoryQueue) Key() string { return q.key }

// Subscribe registers a handler. Must happen before Process.
func (q *MemoryQueue) Subscribe(h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, h)
}

// Publish buffers the message and, if the queue is already processing,
// synchronously drains the backlog.
func (q *MemoryQueue) Publish(ctx context.Context, payload []byte) error {
	q.mu.Lock()
	q.jobs = append(q.jobs, payload)
	active := q.processing
	q.mu.Unlock()

	if !active {
		return nil
	}
	q.drain(ctx)
	return nil
}

// Process marks the queue as consuming and drains any buffered backlog.
// Calling Process again has no additional effect.
func (q *MemoryQueue) Process(ctx context.Context) error {
	q.mu.Lock()
	if q.processing {
		q.mu.Unlock()
		return nil
	}
	q.processing = true
	q.mu.Unlock()

	q.drain(ctx)
	return nil
}

// Failed returns the payloads of jobs whose handlers returned an error.
func (q *MemoryQueue) Failed() [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([][]byte, len(q.failed))
	copy(out, q.failed)
	return out
}

// drain pops jobs one at a time so that at most one is in flight and FIFO
// order holds even when a handler publishes more messages.
func (q *MemoryQueue) drain(ctx context.Context) {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()

	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			// Clearing the flag under the same lock as the emptiness check
			// closes the window where a concurrent Publish appends a job,
			// sees draining still set, and returns without anyone left to
			// drain it.
			q.draining = false
			q.mu.Unlock()
			return
		}
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		handlers := q.handlers
		q.mu.Unlock()

		ok := true
		for _, h := range handlers {
			if err := h.Handle(ctx, job); err != nil {
				log.Printf("queue %s: handler failed: %v", q.key, err)
				ok = false
			}
		}
		if !ok {
			q.mu.Lock()
			q.failed = append(q.failed, job)
			q.mu.Unlock()
		}
	}
}

// MemoryProvider keeps in-memory queues by key.
type MemoryProvider struct {
	mu     sync.Mutex
	queues map[string]*MemoryQueue
}

// NewMemoryProvider returns an empty in-memory queue provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{queues: make(map[string]*MemoryQueue)}
}

// Create returns the queue for key, creating it if needed.
func (p *MemoryProvider) Create(key string) (Queue, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if q, ok := p.queues[key]; ok {
		return q, nil
	}
	q := NewMemoryQueue(key)
	p.queues[key] = q
	return q, nil
}

// Get returns the queue for key, or ok=false when it does not exist.
func (p *MemoryProvider) Get(key string) (Queue, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.queues[key]
	return q, ok
}
