package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type orderRepository struct {
	conn *Conn
}

func NewOrderRepository(conn *Conn) interfaces.OrderRepository {
	return &orderRepository{conn: conn}
}

const orderColumns = `id, table_number, waiter_id, status, total_amount, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.TableNumber, &o.WaiterID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateForVacantTable claims the table first: the conditional UPDATE both
// enforces the vacant precondition and takes the row lock, so of two
// concurrent orders for the same table exactly one commits.
func (r *orderRepository) CreateForVacantTable(ctx context.Context, order *domain.Order) (*domain.Table, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	tx, err := r.conn.pool.Begin(ctx)
	if err != nil {
		return nil, translateErr("begin create order", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE tables SET status = $1, updated_at = now()
		 WHERE table_number = $2 AND status = $3`,
		domain.TableOccupied, order.TableNumber, domain.TableVacant)
	if err != nil {
		return nil, translateErr("claim table", err)
	}
	if tag.RowsAffected() == 0 {
		var status domain.TableStatus
		err := tx.QueryRow(ctx,
			`SELECT status FROM tables WHERE table_number = $1`, order.TableNumber).Scan(&status)
		if err != nil {
			return nil, translateErr(fmt.Sprintf("table %d", order.TableNumber), err)
		}
		return nil, domain.Conflictf("table %d is %s, not vacant", order.TableNumber, status)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (table_number, waiter_id, status, total_amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		order.TableNumber, order.WaiterID, order.Status, order.TotalAmount,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return nil, translateErr("insert order", err)
	}

	for i := range order.Items {
		err := tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, menu_item_id, name, quantity, price, status)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			order.ID, order.Items[i].MenuItemID, order.Items[i].Name,
			order.Items[i].Quantity, order.Items[i].Price, order.Items[i].Status,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return nil, translateErr("insert order item", err)
		}
		order.Items[i].OrderID = order.ID
	}

	table, err := scanTable(tx.QueryRow(ctx,
		`UPDATE tables SET current_order = $1, updated_at = now()
		 WHERE table_number = $2
		 RETURNING `+tableColumns,
		order.ID, order.TableNumber))
	if err != nil {
		return nil, translateErr("attach order to table", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateErr("commit create order", err)
	}
	return table, nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	order, err := scanOrder(r.conn.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(fmt.Sprintf("get order %d", id), err)
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.conn.pool.Query(ctx,
		`SELECT id, order_id, menu_item_id, name, quantity, price, status
		 FROM order_items WHERE order_id = $1 ORDER BY id`, order.ID)
	if err != nil {
		return translateErr("load order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name,
			&item.Quantity, &item.Price, &item.Status)
		if err != nil {
			return translateErr("scan order item", err)
		}
		order.Items = append(order.Items, item)
	}
	return translateErr("load order items", rows.Err())
}

func (r *orderRepository) queryOrders(ctx context.Context, sql string, args ...any) ([]*domain.Order, error) {
	rows, err := r.conn.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateErr("query orders", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, translateErr("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr("query orders", err)
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *orderRepository) ListByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]*domain.Order, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = ANY($1) ORDER BY created_at`,
		statusStrings(statuses))
}

func (r *orderRepository) ListByTable(ctx context.Context, tableNumber int, statuses ...domain.OrderStatus) ([]*domain.Order, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE table_number = $1 AND status = ANY($2) ORDER BY created_at`,
		tableNumber, statusStrings(statuses))
}

// ListBillable excludes billed orders already covered by a paid bill, so a
// table's past billing cycles never leak into a new one.
func (r *orderRepository) ListBillable(ctx context.Context, tableNumber int) ([]*domain.Order, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE table_number = $1
		   AND (status = $2
		        OR (status = $3 AND id NOT IN (
		              SELECT order_id FROM bills WHERE is_paid = true)))
		 ORDER BY created_at`,
		tableNumber, domain.OrderServed, domain.OrderBilled)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	order, err := scanOrder(r.conn.pool.QueryRow(ctx,
		`UPDATE orders SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3
		 RETURNING `+orderColumns,
		to, id, from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, id, from)
		}
		return nil, translateErr("update order status", err)
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkServed flips the order ready -> served and cascades the table
// occupied -> served in the same transaction.
func (r *orderRepository) MarkServed(ctx context.Context, id int64) (*domain.Order, *domain.Table, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	tx, err := r.conn.pool.Begin(ctx)
	if err != nil {
		return nil, nil, translateErr("begin mark served", err)
	}
	defer tx.Rollback(ctx)

	order, err := scanOrder(tx.QueryRow(ctx,
		`UPDATE orders SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3
		 RETURNING `+orderColumns,
		domain.OrderServed, id, domain.OrderReady))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, r.conflictOrNotFound(ctx, id, domain.OrderReady)
		}
		return nil, nil, translateErr("mark order served", err)
	}

	table, err := scanTable(tx.QueryRow(ctx,
		`UPDATE tables SET status = $1, updated_at = now()
		 WHERE table_number = $2 AND status = $3
		 RETURNING `+tableColumns,
		domain.TableServed, order.TableNumber, domain.TableOccupied))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.Conflictf("table %d is not occupied", order.TableNumber)
		}
		return nil, nil, translateErr("mark table served", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, translateErr("commit mark served", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, nil, err
	}
	return order, table, nil
}

func (r *orderRepository) conflictOrNotFound(ctx context.Context, id int64, want domain.OrderStatus) error {
	var status domain.OrderStatus
	err := r.conn.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&status)
	if err != nil {
		return translateErr(fmt.Sprintf("order %d", id), err)
	}
	return domain.Conflictf("order %d is %s, not %s", id, status, want)
}
