package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is the financial summary for a table's served orders. It is immutable
// once created except for IsPaid, which moves false -> true exactly once.
type Bill struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"order"`
	TableNumber    int       `json:"tableNumber"`
	Subtotal       float64   `json:"subtotal"`
	Tax            float64   `json:"tax"`
	Total          float64   `json:"total"`
	ReceptionistID int64     `json:"receptionist"`
	IsPaid         bool      `json:"isPaid"`
	Items          []BillLine `json:"items,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BillLine is a rendered line on a printed bill.
type BillLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// Transaction is the append-only audit record written alongside every bill.
type Transaction struct {
	ID             int64     `json:"id"`
	TableNumber    int       `json:"tableNumber"`
	OrderID        int64     `json:"order"`
	BillID         int64     `json:"bill"`
	WaiterID       int64     `json:"waiter"`
	ReceptionistID int64     `json:"receptionist"`
	TotalAmount    float64   `json:"totalAmount"`
	CompletedAt    time.Time `json:"completedAt"`
}

// ComputeBill aggregates every item across the given orders into bill lines
// and totals. Prices come from the snapshots captured at order time; names
// come from the menu lookup when the item still exists, otherwise from the
// snapshot as well. taxRate is a fraction, e.g. 0.10 for 10%.
func ComputeBill(orders []*Order, menuNames map[int64]string, taxRate float64) (lines []BillLine, subtotal, tax, total float64) {
	sub := decimal.Zero
	for _, order := range orders {
		for _, item := range order.Items {
			price := decimal.NewFromFloat(item.Price)
			lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			sub = sub.Add(lineTotal)

			name := item.Name
			if item.MenuItemID != nil {
				if n, ok := menuNames[*item.MenuItemID]; ok {
					name = n
				}
			}
			if name == "" {
				name = "Unknown Item"
			}

			lt, _ := lineTotal.Round(2).Float64()
			lines = append(lines, BillLine{
				Name:     name,
				Price:    item.Price,
				Quantity: item.Quantity,
				Total:    lt,
			})
		}
	}

	sub = sub.Round(2)
	taxDec := sub.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	totalDec := sub.Add(taxDec)

	subtotal, _ = sub.Float64()
	tax, _ = taxDec.Float64()
	total, _ = totalDec.Float64()
	return lines, subtotal, tax, total
}
