package interfaces

import (
	"context"

	"tableserve/internal/domain"
)

// Commands carried from the HTTP layer into the services.

type CreateOrderCommand struct {
	TableNumber int
	Items       []CreateOrderItemCommand
}

type CreateOrderItemCommand struct {
	MenuItemID int64
	Quantity   int
}

type CreateUserCommand struct {
	Username string
	Password string
	Role     domain.Role
}

type UpsertMenuItemCommand struct {
	Name        string
	Category    string
	Price       float64
	Description string
}

// Claims is the authenticated identity extracted from a bearer token.
type Claims struct {
	UserID   int64
	Username string
	Role     domain.Role
}

type OrderService interface {
	Create(ctx context.Context, waiterID int64, cmd CreateOrderCommand) (*domain.Order, error)
	KitchenQueue(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error)
	ListServedByTable(ctx context.Context, tableNumber int) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
}

type TableService interface {
	List(ctx context.Context) ([]*domain.Table, error)
	Get(ctx context.Context, tableNumber int) (*domain.Table, error)
	Initialize(ctx context.Context) (int, error)
}

type BillingService interface {
	Generate(ctx context.Context, receptionistID int64, tableNumber int) (*domain.Bill, error)
	Get(ctx context.Context, id int64) (*domain.Bill, error)
	MarkPaid(ctx context.Context, id int64) (*domain.Bill, error)
	ListBills(ctx context.Context) ([]*domain.Bill, error)
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	VerifyToken(token string) (*Claims, error)
	CreateUser(ctx context.Context, cmd CreateUserCommand) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type MenuService interface {
	List(ctx context.Context) ([]*domain.MenuItem, error)
	Create(ctx context.Context, cmd UpsertMenuItemCommand) (*domain.MenuItem, error)
	Update(ctx context.Context, id int64, cmd UpsertMenuItemCommand) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int64) error
}
