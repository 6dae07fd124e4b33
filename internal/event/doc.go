// Package event provides the synchronous event bus that connects the
// document, the view and the reveal sessions.
//
// Events are typed values implementing TopicProvider, usually Event[T]
// from NewEvent. Subscribers register a handler for a topic pattern; the
// pattern may use "*" for one segment and "**" for any number of segments.
//
//	bus := event.NewBus()
//	sub, _ := bus.SubscribeFunc(events.TopicCommandCompleted, func(ctx context.Context, e any) error {
//	    ...
//	    return nil
//	})
//	bus.Publish(ctx, event.NewEvent(events.TopicCommandCompleted, payload, "view"))
//	bus.Unsubscribe(sub)
//
// Delivery is synchronous in the publisher's goroutine and ordered by
// subscription priority. A panicking handler is recovered and counted; it
// does not prevent delivery to the remaining handlers.
package event
