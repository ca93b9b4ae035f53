package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
)

func newTestClient() *Client {
	return &Client{send: make(chan domain.Event, clientBuffer)}
}

func receive(t *testing.T, c *Client) domain.Event {
	t.Helper()
	select {
	case event := <-c.send:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return domain.Event{}
	}
}

func TestHubBroadcastsInPublishOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.Nop())
	go hub.Run(ctx)

	first := newTestClient()
	second := newTestClient()
	hub.register <- first
	hub.register <- second

	occupied := domain.TableUpdated(&domain.Table{TableNumber: 5, Status: domain.TableOccupied})
	served := domain.TableUpdated(&domain.Table{TableNumber: 5, Status: domain.TableServed})

	require.NoError(t, hub.Publish(ctx, occupied))
	require.NoError(t, hub.Publish(ctx, served))

	// Every connected client observes the two table 5 events in commit order.
	for _, client := range []*Client{first, second} {
		got := receive(t, client)
		assert.Equal(t, domain.EventTableUpdated, got.Kind)
		assert.Equal(t, domain.TableOccupied, got.Payload.(*domain.Table).Status)

		got = receive(t, client)
		assert.Equal(t, domain.TableServed, got.Payload.(*domain.Table).Status)
	}
}

func TestHubDoesNotReplayForLateSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.Nop())
	go hub.Run(ctx)

	early := newTestClient()
	hub.register <- early

	require.NoError(t, hub.Publish(ctx, domain.NewOrderEvent(&domain.Order{ID: 1})))
	receive(t, early)

	late := newTestClient()
	hub.register <- late

	require.NoError(t, hub.Publish(ctx, domain.NewOrderEvent(&domain.Order{ID: 2})))

	got := receive(t, late)
	assert.Equal(t, int64(2), got.Payload.(*domain.Order).ID, "late subscriber must only see events after connect")
}

func TestHubDropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.Nop())
	go hub.Run(ctx)

	slow := &Client{send: make(chan domain.Event)} // no buffer, never drained
	healthy := newTestClient()
	hub.register <- slow
	hub.register <- healthy

	for i := 0; i < 3; i++ {
		require.NoError(t, hub.Publish(ctx, domain.NewOrderEvent(&domain.Order{ID: int64(i)})))
	}

	// The healthy client keeps receiving; the slow one gets closed.
	receive(t, healthy)
	select {
	case _, open := <-slow.send:
		assert.False(t, open, "slow client channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("slow client was never dropped")
	}
}
