package interfaces

import (
	"context"

	"tableserve/internal/domain"
)

// EventPublisher fans a committed state change out to observers. Services
// call it strictly after the store transaction commits; a publish failure is
// logged by the implementation and never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// EventHandler consumes one serialized event from the broadcast exchange.
type EventHandler func(ctx context.Context, body []byte) error

// EventConsumer subscribes to the broadcast exchange. Used by the
// notification-subscriber mode; websocket clients get events in-process.
type EventConsumer interface {
	ConsumeEvents(ctx context.Context, handler EventHandler) error
}
