package shared

import "context"

// EventHandler processes domain events delivered by the bus. EventTypes
// names the events the handler wants; an empty slice subscribes it to
// every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is the narrow publishing side of the bus, the only part
// application services depend on.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus publishes domain events and manages handler subscriptions.
// Subscribe without explicit event types defers to the handler's own
// EventTypes.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}
