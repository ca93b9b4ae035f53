package interfaces

import (
	"context"

	"tableserve/internal/domain"
)

// TableRepository persists the fixed set of provisioned tables. Table status
// never changes through this interface: every transition is a conditional
// update inside an order or billing transaction, matching on the expected
// current status so a losing concurrent request fails with domain.ErrConflict.
type TableRepository interface {
	List(ctx context.Context) ([]*domain.Table, error)
	Get(ctx context.Context, tableNumber int) (*domain.Table, error)
	// Initialize wipes and recreates tables 1..count, all vacant.
	Initialize(ctx context.Context, count int) error
}

type OrderRepository interface {
	// CreateForVacantTable inserts the order and claims its table
	// (vacant -> occupied, current_order set) in one transaction. Exactly one
	// of two concurrent calls for the same table succeeds; the loser gets
	// domain.ErrConflict.
	CreateForVacantTable(ctx context.Context, order *domain.Order) (*domain.Table, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	ListByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]*domain.Order, error)
	ListByTable(ctx context.Context, tableNumber int, statuses ...domain.OrderStatus) ([]*domain.Order, error)
	// ListBillable returns the table's served orders plus billed orders not
	// yet attached to a paid bill, oldest first.
	ListBillable(ctx context.Context, tableNumber int) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus transitions the order from -> to conditionally.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error)
	// MarkServed flips the order ready -> served and cascades its table
	// occupied -> served in one transaction.
	MarkServed(ctx context.Context, id int64) (*domain.Order, *domain.Table, error)
}

type BillRepository interface {
	// Create writes the bill, its audit transaction, flips every served order
	// for the table to billed and moves the table served -> billed, all in one
	// store transaction. Returns the updated table.
	Create(ctx context.Context, bill *domain.Bill, txn *domain.Transaction) (*domain.Table, error)
	Get(ctx context.Context, id int64) (*domain.Bill, error)
	List(ctx context.Context) ([]*domain.Bill, error)
	// MarkPaid flips is_paid false -> true exactly once and releases the
	// table to vacant, clearing its current order. A second call fails with
	// domain.ErrConflict.
	MarkPaid(ctx context.Context, id int64) (*domain.Bill, *domain.Table, error)
}

type TransactionRepository interface {
	List(ctx context.Context) ([]*domain.Transaction, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type MenuRepository interface {
	List(ctx context.Context) ([]*domain.MenuItem, error)
	Get(ctx context.Context, id int64) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id int64) error
}
