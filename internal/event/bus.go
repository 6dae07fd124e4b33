package event

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/peekmark/internal/event/dispatch"
	"github.com/dshills/peekmark/internal/event/topic"
)

// Bus is the central event bus interface.
type Bus interface {
	// Publish delivers an event to all matching subscriptions before returning.
	Publish(ctx context.Context, event any) error

	Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Unsubscribe removes a subscription. Removing a subscription twice
	// returns ErrSubscriptionNotFound and has no other effect.
	Unsubscribe(sub Subscription) error

	Stats() Stats
}

type bus struct {
	registry   *Registry
	dispatcher *dispatch.SyncDispatcher
	config     busConfig

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	var config busConfig
	for _, opt := range opts {
		opt(&config)
	}

	b := &bus{
		registry: NewRegistry(),
		config:   config,
	}
	b.dispatcher = dispatch.NewSyncDispatcher(
		dispatch.WithPanicHandler(func(event any, v any, _ []byte) {
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, v)
			}
		}),
	)
	return b
}

// Publish sends an event synchronously.
func (b *bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}

	b.eventsPublished.Add(1)
	for _, sub := range b.registry.Match(tp.EventTopic()) {
		if !sub.shouldDeliver(event) {
			continue
		}

		result := b.dispatcher.Dispatch(ctx, event, sub.handler)
		switch {
		case result.Panicked:
			b.handlerPanics.Add(1)
		case result.Error != nil:
			b.handlerErrors.Add(1)
			if b.config.errorHandler != nil {
				b.config.errorHandler(event, &HandlerError{
					SubscriptionID: sub.id,
					Topic:          string(sub.topic),
					Err:            result.Error,
				})
			}
		case result.Success:
			b.eventsDelivered.Add(1)
		}

		if sub.config.Once && result.Success {
			sub.cancel()
			b.registry.Remove(sub.id)
		}
	}
	return nil
}

// Subscribe creates a new subscription for the given topic pattern.
func (b *bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !topicPattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(uuid.NewString(), topicPattern, handler, opts...)
	b.registry.Add(sub)
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(topicPattern, fn, opts...)
}

// Unsubscribe removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	if s, ok := sub.(*subscription); ok {
		s.cancel()
	}
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.Count(),
	}
}
