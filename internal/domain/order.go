package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a waiter-submitted set of menu items for one table. The top-level
// status drives the table lifecycle; per-item statuses are descriptive.
type Order struct {
	ID          int64       `json:"id"`
	TableNumber int         `json:"tableNumber"`
	WaiterID    int64       `json:"waiter"`
	Items       []OrderItem `json:"items"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderItem snapshots the menu item's name and price at order time, so later
// menu edits or deletions cannot change what the customer owes.
type OrderItem struct {
	ID         int64      `json:"id"`
	OrderID    int64      `json:"orderId"`
	MenuItemID *int64     `json:"menuItem,omitempty"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	Price      float64    `json:"price"`
	Status     ItemStatus `json:"status"`
}

// NewOrder validates the request and builds an order ready for the kitchen.
// Orders skip the pending state: submitting one sends it straight to in_kitchen.
func NewOrder(tableNumber int, waiterID int64, items []OrderItem) (*Order, error) {
	if tableNumber < 1 {
		return nil, Validationf("table number must be positive, got %d", tableNumber)
	}
	if len(items) == 0 {
		return nil, Validationf("order must contain at least one item")
	}
	for i := range items {
		if items[i].Quantity < 1 {
			return nil, Validationf("item %q quantity must be at least 1", items[i].Name)
		}
		if items[i].Price < 0 {
			return nil, Validationf("item %q price must not be negative", items[i].Name)
		}
		if items[i].Status == "" {
			items[i].Status = ItemPending
		}
	}

	order := &Order{
		TableNumber: tableNumber,
		WaiterID:    waiterID,
		Items:       items,
		Status:      OrderInKitchen,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	order.CalculateTotal()
	return order, nil
}

// CalculateTotal recomputes the order total from the item price snapshots.
func (o *Order) CalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	o.TotalAmount, _ = total.Round(2).Float64()
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderInKitchen},
	OrderInKitchen: {OrderReady},
	OrderReady:     {OrderServed},
	OrderServed:    {OrderBilled},
	OrderBilled:    {},
}

// CanTransitionTo reports whether moving the order to newStatus is legal.
func (o *Order) CanTransitionTo(newStatus OrderStatus) bool {
	for _, s := range orderTransitions[o.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo applies a legal status change in memory.
func (o *Order) TransitionTo(newStatus OrderStatus) error {
	if !o.CanTransitionTo(newStatus) {
		return Conflictf("order %d cannot move from %s to %s", o.ID, o.Status, newStatus)
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now()
	return nil
}
