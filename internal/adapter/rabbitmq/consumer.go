package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/interfaces"
)

type consumer struct {
	conn *Connection
	lgr  logger.Logger
}

func NewConsumer(conn *Connection, lgr logger.Logger) interfaces.EventConsumer {
	return &consumer{conn: conn, lgr: lgr}
}

// ConsumeEvents binds a temporary exclusive queue to the fanout exchange and
// feeds every event to handler. Events published while the consumer is
// disconnected are lost: the exchange keeps no backlog for late subscribers.
func (c *consumer) ConsumeEvents(ctx context.Context, handler interfaces.EventHandler) error {
	for {
		err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		c.lgr.Error("consumer_disconnected", "Events consumer disconnected, reconnecting", "", nil, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *consumer) consumeOnce(ctx context.Context, handler interfaces.EventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	closeChan := ch.NotifyClose(make(chan *amqp.Error, 1))

	if err := declareEventsExchange(ch); err != nil {
		return err
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", EventsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}
			// Best-effort: a handler failure never stops the stream.
			if err := handler(ctx, msg.Body); err != nil {
				c.lgr.Error("event_handler_failed", "Failed to handle event", "", nil, err)
			}
		}
	}
}
