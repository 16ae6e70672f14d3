package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type testEvent struct {
	name string
	at   time.Time
}

func (e testEvent) Name() string          { return e.name }
func (e testEvent) OccurredOn() time.Time { return e.at }

func TestDispatch_AllHandlersRun(t *testing.T) {
	bus := NewBus()
	var calls int32
	for i := 0; i < 3; i++ {
		bus.Register("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}))
	}

	err := bus.Dispatch(context.Background(), testEvent{name: "thing.happened", at: time.Now()})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("handler calls = %d, want 3", got)
	}
}

func TestDispatch_NoHandlers(t *testing.T) {
	bus := NewBus()
	err := bus.Dispatch(context.Background(), testEvent{name: "nobody.cares", at: time.Now()})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
}

func TestDispatch_HandlerErrorPropagates(t *testing.T) {
	bus := NewBus()
	boom := errors.New("boom")
	bus.Register("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		return nil
	}))
	bus.Register("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		return boom
	}))

	err := bus.Dispatch(context.Background(), testEvent{name: "thing.happened", at: time.Now()})
	if !errors.Is(err, boom) {
		t.Fatalf("Dispatch() error = %v, want %v", err, boom)
	}
}

func TestDispatch_HandlersRunConcurrently(t *testing.T) {
	bus := NewBus()
	var wg sync.WaitGroup
	wg.Add(2)
	// Both handlers block until the other has started; a sequential bus
	// would deadlock here and trip the timeout.
	for i := 0; i < 2; i++ {
		bus.Register("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
			wg.Done()
			wg.Wait()
			return nil
		}))
	}

	done := make(chan error, 1)
	go func() {
		done <- bus.Dispatch(context.Background(), testEvent{name: "thing.happened", at: time.Now()})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Dispatch() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handlers did not run concurrently")
	}
}

func TestDispatch_OnlyMatchingHandlersRun(t *testing.T) {
	bus := NewBus()
	var aCalls, bCalls int32
	bus.Register("a", HandlerFunc(func(ctx context.Context, event Event) error {
		atomic.AddInt32(&aCalls, 1)
		return nil
	}))
	bus.Register("b", HandlerFunc(func(ctx context.Context, event Event) error {
		atomic.AddInt32(&bCalls, 1)
		return nil
	}))

	if err := bus.Dispatch(context.Background(), testEvent{name: "a", at: time.Now()}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if aCalls != 1 || bCalls != 0 {
		t.Errorf("calls = (a=%d, b=%d), want (a=1, b=0)", aCalls, bCalls)
	}
}

func TestClear_RemovesHandlers(t *testing.T) {
	bus := NewBus()
	var calls int32
	bus.Register("a", HandlerFunc(func(ctx context.Context, event Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	bus.Clear()

	if err := bus.Dispatch(context.Background(), testEvent{name: "a", at: time.Now()}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if calls != 0 {
		t.Errorf("handler calls after Clear = %d, want 0", calls)
	}
}
