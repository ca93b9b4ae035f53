package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
)

// NotificationHandler consumes committed domain events off the fanout
// exchange and prints them. It is the subscriber-mode counterpart of the
// websocket hub: same events, out of process.
type NotificationHandler struct {
	lgr logger.Logger
}

func NewNotificationHandler(lgr logger.Logger) *NotificationHandler {
	return &NotificationHandler{lgr: lgr}
}

func (h *NotificationHandler) HandleEvent(ctx context.Context, body []byte) error {
	var event struct {
		Kind    domain.EventKind `json:"event"`
		Payload json.RawMessage  `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		h.lgr.Error("event_parse_failed", "Failed to parse event", "", nil, err)
		return err
	}

	h.lgr.Debug("event_received", fmt.Sprintf("Received %s event", event.Kind), "", map[string]any{
		"kind": string(event.Kind),
	})

	switch event.Kind {
	case domain.EventTableUpdated:
		var table domain.Table
		if err := json.Unmarshal(event.Payload, &table); err != nil {
			return err
		}
		fmt.Printf("Table %d is now %s\n", table.TableNumber, table.Status)
	case domain.EventNewOrder:
		var order domain.Order
		if err := json.Unmarshal(event.Payload, &order); err != nil {
			return err
		}
		fmt.Printf("New order %d for table %d (%d items, total %.2f)\n",
			order.ID, order.TableNumber, len(order.Items), order.TotalAmount)
	case domain.EventOrderUpdated:
		var order domain.Order
		if err := json.Unmarshal(event.Payload, &order); err != nil {
			return err
		}
		fmt.Printf("Order %d for table %d moved to %s\n", order.ID, order.TableNumber, order.Status)
	default:
		fmt.Printf("Unknown event kind %q\n", event.Kind)
	}

	return nil
}
