package domain

// EventKind names the real-time notifications pushed to connected clients.
type EventKind string

const (
	EventTableUpdated EventKind = "tableUpdated"
	EventNewOrder     EventKind = "newOrder"
	EventOrderUpdated EventKind = "orderUpdated"
)

// Event carries the full updated entity as its payload. Delivery is
// best-effort and at-most-once; clients that miss events reconcile with a
// full reload on reconnect.
type Event struct {
	Kind    EventKind `json:"event"`
	Payload any       `json:"payload"`
}

func TableUpdated(t *Table) Event  { return Event{Kind: EventTableUpdated, Payload: t} }
func NewOrderEvent(o *Order) Event { return Event{Kind: EventNewOrder, Payload: o} }
func OrderUpdated(o *Order) Event  { return Event{Kind: EventOrderUpdated, Payload: o} }
