package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/ASEODA/narashop-estimate/platform/logger"
)

type testEvent struct {
	BaseEvent
}

func (testEvent) EventName() string { return "test.happened" }

func TestPublishRunsAllHandlersAndContainsPanics(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())
	var calls atomic.Int32

	bus.Subscribe("test.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		calls.Add(1)
		return nil
	}))
	bus.Subscribe("test.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		calls.Add(1)
		panic("boom")
	}))
	bus.Subscribe("other", HandlerFunc(func(ctx context.Context, e Event) error {
		t.Error("handler for another event must not run")
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, testEvent{BaseEvent: NewBaseEvent()})
	cancel()
	bus.Wait()

	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())
	first := errors.New("first")

	bus.Subscribe("test.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		return first
	}))
	bus.Subscribe("test.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		panic("second")
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, first) {
		t.Fatalf("expected joined error to contain first, got %v", err)
	}
}
