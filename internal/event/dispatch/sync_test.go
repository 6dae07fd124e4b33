package dispatch

import (
	"context"
	"errors"
	"testing"
)

type handlerFunc func(ctx context.Context, event any) error

func (f handlerFunc) Handle(ctx context.Context, event any) error { return f(ctx, event) }

func TestSyncDispatcherSuccessAndError(t *testing.T) {
	d := NewSyncDispatcher()
	ctx := context.Background()

	r := d.Dispatch(ctx, "e", handlerFunc(func(context.Context, any) error { return nil }))
	if !r.IsSuccess() {
		t.Errorf("Dispatch() = %+v, want success", r)
	}

	boom := errors.New("boom")
	r = d.Dispatch(ctx, "e", handlerFunc(func(context.Context, any) error { return boom }))
	if !errors.Is(r.Error, boom) {
		t.Errorf("Dispatch() error = %v, want boom", r.Error)
	}

	stats := d.Stats()
	if stats.Dispatched != 2 || stats.Succeeded != 1 || stats.Failed != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestSyncDispatcherRecoversPanic(t *testing.T) {
	var gotValue any
	d := NewSyncDispatcher(WithPanicHandler(func(_ any, v any, stack []byte) {
		gotValue = v
		if len(stack) == 0 {
			t.Error("panic handler got empty stack")
		}
	}))

	r := d.Dispatch(context.Background(), "e", handlerFunc(func(context.Context, any) error {
		panic("bad handler")
	}))

	if !r.Panicked || r.PanicValue != "bad handler" {
		t.Errorf("Dispatch() = %+v, want panicked", r)
	}
	if gotValue != "bad handler" {
		t.Errorf("panic handler value = %v", gotValue)
	}
	if d.Stats().Panicked != 1 {
		t.Errorf("Panicked = %d, want 1", d.Stats().Panicked)
	}
}

func TestSyncDispatcherSkipsCancelledContext(t *testing.T) {
	d := NewSyncDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	r := d.Dispatch(ctx, "e", handlerFunc(func(context.Context, any) error {
		called = true
		return nil
	}))
	if called || !r.Skipped {
		t.Errorf("handler ran on cancelled context: %+v", r)
	}
}
