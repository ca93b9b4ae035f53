// Package policy is the single declarative access table: one map from
// operation to the roles allowed to perform it, consulted once per request.
package policy

import "tableserve/internal/domain"

type Operation string

const (
	OpCreateOrder       Operation = "order.create"
	OpViewKitchenQueue  Operation = "order.kitchen_queue"
	OpUpdateOrderStatus Operation = "order.update_status"
	OpViewTableOrders   Operation = "order.view_table"
	OpViewAllOrders     Operation = "order.view_all"

	OpViewTables Operation = "table.view"

	OpGenerateBill     Operation = "bill.generate"
	OpViewBill         Operation = "bill.view"
	OpConfirmPayment   Operation = "bill.confirm_payment"
	OpViewAllBills     Operation = "bill.view_all"
	OpViewTransactions Operation = "transaction.view"

	OpManageMenu  Operation = "menu.manage"
	OpManageUsers Operation = "user.manage"
)

// anyRole marks operations open to every authenticated user regardless of role.
var anyRole = []domain.Role{domain.RoleSuperAdmin, domain.RoleWaiter, domain.RoleChef, domain.RoleReceptionist}

var rules = map[Operation][]domain.Role{
	OpCreateOrder:       {domain.RoleWaiter},
	OpViewKitchenQueue:  {domain.RoleChef},
	OpUpdateOrderStatus: {domain.RoleChef},
	OpViewTableOrders:   {domain.RoleReceptionist, domain.RoleSuperAdmin},
	OpViewAllOrders:     {domain.RoleSuperAdmin},

	OpViewTables: anyRole,

	OpGenerateBill:     {domain.RoleReceptionist},
	OpViewBill:         anyRole,
	OpConfirmPayment:   {domain.RoleReceptionist},
	OpViewAllBills:     {domain.RoleSuperAdmin},
	OpViewTransactions: {domain.RoleReceptionist},

	OpManageMenu:  {domain.RoleSuperAdmin},
	OpManageUsers: {domain.RoleSuperAdmin},
}

// Allowed reports whether role may perform op. Roles match exactly; there is
// no hierarchy, so super_admin is not implicitly granted everything.
func Allowed(role domain.Role, op Operation) bool {
	for _, r := range rules[op] {
		if r == role {
			return true
		}
	}
	return false
}
