package shared

import "context"

// EventHandler reacts to dashboard events, e.g. the export synchronizer
// scheduling a webhook after a mutation.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants; nil means every event
	EventTypes() []string
}

// EventPublisher is what the dashboard store needs to announce changes.
// A nil publisher is allowed and drops events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus routes published events to subscribed handlers
type EventBus interface {
	EventPublisher
	// Subscribe registers handler for eventTypes, or for handler.EventTypes() when none are given
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	// Stop rejects further publishes
	Stop(ctx context.Context) error
}
