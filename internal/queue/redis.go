package queue

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blockTimeout = 5 * time.Second

// RedisQueue is a durable queue backed by Redis lists. Publishes RPUSH onto
// the queue list; a single consumer loop moves one job at a time into a
// processing list, so exactly one job per key is in flight. Completed jobs are
// discarded; failed jobs land on <key>:failed for operator inspection.
type RedisQueue struct {
	key    string
	client *redis.Client

	mu         sync.Mutex
	handlers   []Handler
	processing bool
}

// NewRedisQueue returns a Redis-backed queue with the given key.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{key: key, client: client}
}

// Key returns the queue's name.
func (q *RedisQueue) Key() string { return q.key }

func (q *RedisQueue) listKey() string       { return "queue:" + q.key }
func (q *RedisQueue) processingKey() string { return "queue:" + q.key + ":processing" }
func (q *RedisQueue) failedKey() string     { return "queue:" + q.key + ":failed" }

// Subscribe registers a handler. Must happen before Process.
func (q *RedisQueue) Subscribe(h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, h)
}

// Publish appends the message to the queue list.
func (q *RedisQueue) Publish(ctx context.Context, payload []byte) error {
	return q.client.RPush(ctx, q.listKey(), payload).Err()
}

// Process starts the consumer loop in a goroutine. Idempotent. The loop stops
// when ctx is canceled; a job already in flight runs to completion.
func (q *RedisQueue) Process(ctx context.Context) error {
	q.mu.Lock()
	if q.processing {
		q.mu.Unlock()
		return nil
	}
	q.processing = true
	q.mu.Unlock()

	go q.consume(ctx)
	return nil
}

func (q *RedisQueue) consume(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		// Move the head job to the processing list so a crash between pop and
		// completion leaves the job recoverable (at-least-once).
		res, err := q.client.BLMove(ctx, q.listKey(), q.processingKey(), "LEFT", "RIGHT", blockTimeout).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			log.Printf("queue %s: redis read error: %v", q.key, err)
			continue
		}
		q.handle(ctx, []byte(res))
	}
}

func (q *RedisQueue) handle(ctx context.Context, job []byte) {
	q.mu.Lock()
	handlers := q.handlers
	q.mu.Unlock()

	ok := true
	for _, h := range handlers {
		if err := h.Handle(ctx, job); err != nil {
			log.Printf("queue %s: handler failed: %v", q.key, err)
			ok = false
		}
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), blockTimeout)
	defer cancel()
	if !ok {
		if err := q.client.RPush(cleanupCtx, q.failedKey(), job).Err(); err != nil {
			log.Printf("queue %s: failed-list push error: %v", q.key, err)
		}
	}
	if err := q.client.LRem(cleanupCtx, q.processingKey(), 1, job).Err(); err != nil {
		log.Printf("queue %s: processing-list cleanup error: %v", q.key, err)
	}
}

// RedisProvider keeps Redis-backed queues by key, sharing one client.
type RedisProvider struct {
	client *redis.Client

	mu     sync.Mutex
	queues map[string]*RedisQueue
}

// NewRedisProvider returns a provider creating queues on the given client.
func NewRedisProvider(client *redis.Client) *RedisProvider {
	return &RedisProvider{client: client, queues: make(map[string]*RedisQueue)}
}

// Create returns the queue for key, creating it if needed.
func (p *RedisProvider) Create(key string) (Queue, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if q, ok := p.queues[key]; ok {
		return q, nil
	}
	q := NewRedisQueue(p.client, key)
	p.queues[key] = q
	return q, nil
}

// Get returns the queue for key, or ok=false when it does not exist.
func (p *RedisProvider) Get(key string) (Queue, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.queues[key]
	return q, ok
}
