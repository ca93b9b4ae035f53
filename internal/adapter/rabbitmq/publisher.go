package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type publisher struct {
	conn *Connection
}

// NewPublisher publishes committed domain events to the fanout exchange.
// External dashboards and the notification-subscriber mode consume them
// there; in-process websocket clients are fed separately by the hub.
func NewPublisher(conn *Connection) interfaces.EventPublisher {
	return &publisher{conn: conn}
}

func (p *publisher) Publish(ctx context.Context, event domain.Event) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := declareEventsExchange(ch); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx, EventsExchange, string(event.Kind), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
