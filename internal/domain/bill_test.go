package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBillScenario(t *testing.T) {
	// Table 3: one order of 2 x item at 10.00 -> subtotal 20, tax 2, total 22.
	menuID := int64(4)
	orders := []*Order{{
		ID:          1,
		TableNumber: 3,
		Items: []OrderItem{
			{MenuItemID: &menuID, Name: "Burger", Quantity: 2, Price: 10},
		},
	}}

	lines, subtotal, tax, total := ComputeBill(orders, map[int64]string{menuID: "Burger"}, 0.10)

	assert.Equal(t, 20.0, subtotal)
	assert.Equal(t, 2.0, tax)
	assert.Equal(t, 22.0, total)
	assert.Len(t, lines, 1)
	assert.Equal(t, BillLine{Name: "Burger", Price: 10, Quantity: 2, Total: 20}, lines[0])
}

func TestComputeBillSumsAcrossOrders(t *testing.T) {
	orders := []*Order{
		{ID: 1, Items: []OrderItem{{Name: "Soup", Quantity: 1, Price: 4.50}}},
		{ID: 2, Items: []OrderItem{{Name: "Steak", Quantity: 2, Price: 15.25}}},
	}

	_, subtotal, tax, total := ComputeBill(orders, nil, 0.10)

	assert.Equal(t, 35.0, subtotal)
	assert.Equal(t, 3.5, tax)
	assert.Equal(t, 38.5, total)
}

func TestComputeBillFallsBackToSnapshotName(t *testing.T) {
	deleted := int64(99)
	orders := []*Order{{
		ID: 1,
		Items: []OrderItem{
			{MenuItemID: &deleted, Name: "Seasonal Special", Quantity: 1, Price: 12},
			{MenuItemID: &deleted, Quantity: 1, Price: 3},
		},
	}}

	// Menu item 99 was deleted after the order was taken.
	lines, subtotal, _, _ := ComputeBill(orders, map[int64]string{}, 0.10)

	assert.Equal(t, 15.0, subtotal)
	assert.Equal(t, "Seasonal Special", lines[0].Name)
	assert.Equal(t, "Unknown Item", lines[1].Name)
}

func TestComputeBillRoundsTaxToCents(t *testing.T) {
	orders := []*Order{{
		ID:    1,
		Items: []OrderItem{{Name: "Wine", Quantity: 1, Price: 9.99}},
	}}

	_, subtotal, tax, total := ComputeBill(orders, nil, 0.10)

	assert.Equal(t, 9.99, subtotal)
	assert.Equal(t, 1.0, tax)
	assert.Equal(t, 10.99, total)
}
