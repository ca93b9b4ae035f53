// Package events composes the delivery paths for committed state changes:
// the in-process websocket hub and the RabbitMQ fanout exchange.
package events

import (
	"context"
	"errors"

	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type fanout struct {
	targets []interfaces.EventPublisher
}

// NewFanout publishes each event to every target. A failing target never
// prevents delivery to the others.
func NewFanout(targets ...interfaces.EventPublisher) interfaces.EventPublisher {
	return &fanout{targets: targets}
}

func (f *fanout) Publish(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, target := range f.targets {
		if err := target.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
