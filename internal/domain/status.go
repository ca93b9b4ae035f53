package domain

type TableStatus string

const (
	TableVacant   TableStatus = "vacant"
	TableOccupied TableStatus = "occupied"
	TableServed   TableStatus = "served"
	TableBilled   TableStatus = "billed"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderInKitchen OrderStatus = "in_kitchen"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderBilled    OrderStatus = "billed"
)

// ItemStatus tracks a single order item through the kitchen. It is
// informational only and never gates the order-level state machine.
type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInProgress ItemStatus = "in_progress"
	ItemReady      ItemStatus = "ready"
	ItemServed     ItemStatus = "served"
)

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleWaiter       Role = "waiter"
	RoleChef         Role = "chef"
	RoleReceptionist Role = "receptionist"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleWaiter, RoleChef, RoleReceptionist:
		return true
	}
	return false
}

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderInKitchen, OrderReady, OrderServed, OrderBilled:
		return true
	}
	return false
}
