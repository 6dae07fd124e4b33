package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/peekmark/internal/event/topic"
)

type testPayload struct {
	N int
}

func TestBusPublishSubscribe(t *testing.T) {
	b := NewBus()
	ctx := context.Background()

	var got []int
	sub, err := b.SubscribeFunc("test.event", func(_ context.Context, e any) error {
		p, ok := PayloadOf[testPayload](e)
		if !ok {
			t.Errorf("PayloadOf() failed for %T", e)
		}
		got = append(got, p.N)
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}

	if err := b.Publish(ctx, NewEvent[testPayload]("test.event", testPayload{N: 1}, "test")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := b.Publish(ctx, NewEvent[testPayload]("test.other", testPayload{N: 2}, "test")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(got) != 1 || got[0] != 1 {
		t.Errorf("delivered = %v, want [1]", got)
	}

	if err := b.Unsubscribe(sub); err != nil {
		t.Errorf("Unsubscribe() error = %v", err)
	}
	if err := b.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe() error = %v, want ErrSubscriptionNotFound", err)
	}

	_ = b.Publish(ctx, NewEvent[testPayload]("test.event", testPayload{N: 3}, "test"))
	if len(got) != 1 {
		t.Errorf("delivered after unsubscribe: %v", got)
	}
}

func TestBusPriorityOrder(t *testing.T) {
	b := NewBus()
	var order []string

	record := func(name string) HandlerFunc {
		return func(context.Context, any) error {
			order = append(order, name)
			return nil
		}
	}

	_, _ = b.SubscribeFunc("a.b", record("low"), WithPriority(PriorityLow))
	_, _ = b.SubscribeFunc("a.*", record("critical"), WithPriority(PriorityCritical))
	_, _ = b.SubscribeFunc("a.b", record("normal-1"))
	_, _ = b.SubscribeFunc("**", record("normal-2"))

	_ = b.Publish(context.Background(), NewEvent("a.b", 0, "test"))

	want := []string{"critical", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestBusPanicIsolated(t *testing.T) {
	var recovered any
	b := NewBus(WithBusPanicHandler(func(_ any, v any) { recovered = v }))

	delivered := false
	_, _ = b.SubscribeFunc("x", func(context.Context, any) error { panic("boom") }, WithPriority(PriorityCritical))
	_, _ = b.SubscribeFunc("x", func(context.Context, any) error {
		delivered = true
		return nil
	})

	if err := b.Publish(context.Background(), NewEvent("x", 0, "test")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !delivered {
		t.Error("handler after panicking handler was not called")
	}
	if recovered != "boom" {
		t.Errorf("recovered = %v, want boom", recovered)
	}
	if b.Stats().HandlerPanics != 1 {
		t.Errorf("HandlerPanics = %d, want 1", b.Stats().HandlerPanics)
	}
}

func TestBusHandlerError(t *testing.T) {
	var gotErr error
	b := NewBus(WithErrorHandler(func(_ any, err error) { gotErr = err }))
	boom := errors.New("boom")

	_, _ = b.SubscribeFunc("x", func(context.Context, any) error { return boom })
	_ = b.Publish(context.Background(), NewEvent("x", 0, "test"))

	var herr *HandlerError
	if !errors.As(gotErr, &herr) || herr.Topic != "x" {
		t.Fatalf("error handler got %v, want *HandlerError", gotErr)
	}
	if !errors.Is(gotErr, boom) {
		t.Error("HandlerError does not unwrap to handler error")
	}
}

func TestBusOnceAndFilter(t *testing.T) {
	b := NewBus()
	calls := 0
	_, _ = b.SubscribeFunc("x", func(context.Context, any) error {
		calls++
		return nil
	}, WithOnce())

	filtered := 0
	_, _ = b.SubscribeFunc("x", func(context.Context, any) error {
		filtered++
		return nil
	}, WithFilter(func(e any) bool {
		n, _ := PayloadOf[int](e)
		return n > 1
	}))

	for i := 1; i <= 3; i++ {
		_ = b.Publish(context.Background(), NewEvent("x", i, "test"))
	}
	if calls != 1 {
		t.Errorf("once handler calls = %d, want 1", calls)
	}
	if filtered != 2 {
		t.Errorf("filtered handler calls = %d, want 2", filtered)
	}
}

func TestBusUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	var second Subscription
	secondCalls := 0

	_, _ = b.SubscribeFunc("x", func(context.Context, any) error {
		_ = b.Unsubscribe(second)
		return nil
	}, WithPriority(PriorityCritical))
	second, _ = b.SubscribeFunc("x", func(context.Context, any) error {
		secondCalls++
		return nil
	})

	_ = b.Publish(context.Background(), NewEvent("x", 0, "test"))
	if secondCalls != 0 {
		t.Errorf("unsubscribed handler called %d times", secondCalls)
	}
}

func TestBusErrors(t *testing.T) {
	b := NewBus()

	if _, err := b.Subscribe("x", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("Subscribe(nil) error = %v", err)
	}
	if _, err := b.SubscribeFunc(topic.Topic(""), func(context.Context, any) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("SubscribeFunc(\"\") error = %v", err)
	}
	if err := b.Publish(context.Background(), "not an event"); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Publish(string) error = %v", err)
	}
	if err := b.Unsubscribe(nil); !errors.Is(err, ErrInvalidSubscription) {
		t.Errorf("Unsubscribe(nil) error = %v", err)
	}
}
