// Package ws is the real-time channel: a websocket hub that fans committed
// table/order state changes out to every connected client. Delivery is
// best-effort and at-most-once; there is no backlog, so a client that
// (re)connects reconciles by reloading current state over the REST API.
package ws

import (
	"context"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
)

const clientBuffer = 32

type Hub struct {
	lgr        logger.Logger
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan domain.Event
}

func NewHub(lgr logger.Logger) *Hub {
	return &Hub{
		lgr:        lgr,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan domain.Event, 64),
	}
}

// Run owns the client set. A single goroutine drains the broadcast channel,
// which is what keeps events flowing to every client in publish order.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.lgr.Debug("client_connected", "Websocket client connected", "", map[string]any{
				"clients": len(h.clients),
			})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.lgr.Debug("client_disconnected", "Websocket client disconnected", "", map[string]any{
				"clients": len(h.clients),
			})

		case event := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Slow consumer: drop it rather than block the fan-out.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Publish implements interfaces.EventPublisher. It blocks only on the hub's
// own buffer, never on any client connection.
func (h *Hub) Publish(ctx context.Context, event domain.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
