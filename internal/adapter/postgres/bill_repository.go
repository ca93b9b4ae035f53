package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type billRepository struct {
	conn *Conn
}

func NewBillRepository(conn *Conn) interfaces.BillRepository {
	return &billRepository{conn: conn}
}

const billColumns = `id, order_id, table_number, subtotal, tax, total, receptionist_id, is_paid, items, created_at, updated_at`

func scanBill(row interface{ Scan(dest ...any) error }) (*domain.Bill, error) {
	var b domain.Bill
	var items []byte
	err := row.Scan(&b.ID, &b.OrderID, &b.TableNumber, &b.Subtotal, &b.Tax, &b.Total,
		&b.ReceptionistID, &b.IsPaid, &items, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, fmt.Errorf("decode bill items: %w", err)
		}
	}
	return &b, nil
}

// Create persists the bill, its audit transaction, the bulk served -> billed
// order flip and the table served -> billed transition as one store
// transaction, so no partial billing state is ever visible.
func (r *billRepository) Create(ctx context.Context, bill *domain.Bill, txn *domain.Transaction) (*domain.Table, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	items, err := json.Marshal(bill.Items)
	if err != nil {
		return nil, fmt.Errorf("encode bill items: %w", err)
	}

	tx, err := r.conn.pool.Begin(ctx)
	if err != nil {
		return nil, translateErr("begin create bill", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO bills (order_id, table_number, subtotal, tax, total, receptionist_id, is_paid, items, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, false, $7, now(), now())
		 RETURNING id, created_at, updated_at`,
		bill.OrderID, bill.TableNumber, bill.Subtotal, bill.Tax, bill.Total,
		bill.ReceptionistID, items,
	).Scan(&bill.ID, &bill.CreatedAt, &bill.UpdatedAt)
	if err != nil {
		return nil, translateErr("insert bill", err)
	}

	txn.BillID = bill.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO transactions (table_number, order_id, bill_id, waiter_id, receptionist_id, total_amount, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 RETURNING id, completed_at`,
		txn.TableNumber, txn.OrderID, txn.BillID, txn.WaiterID, txn.ReceptionistID, txn.TotalAmount,
	).Scan(&txn.ID, &txn.CompletedAt)
	if err != nil {
		return nil, translateErr("insert transaction", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = now()
		 WHERE table_number = $2 AND status = $3`,
		domain.OrderBilled, bill.TableNumber, domain.OrderServed)
	if err != nil {
		return nil, translateErr("flip served orders", err)
	}

	table, err := scanTable(tx.QueryRow(ctx,
		`UPDATE tables SET status = $1, updated_at = now()
		 WHERE table_number = $2 AND status = $3
		 RETURNING `+tableColumns,
		domain.TableBilled, bill.TableNumber, domain.TableServed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Conflictf("table %d is not served", bill.TableNumber)
		}
		return nil, translateErr("mark table billed", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateErr("commit create bill", err)
	}
	return table, nil
}

func (r *billRepository) Get(ctx context.Context, id int64) (*domain.Bill, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	bill, err := scanBill(r.conn.pool.QueryRow(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(fmt.Sprintf("get bill %d", id), err)
	}
	return bill, nil
}

func (r *billRepository) List(ctx context.Context) ([]*domain.Bill, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	rows, err := r.conn.pool.Query(ctx,
		`SELECT `+billColumns+` FROM bills ORDER BY created_at DESC`)
	if err != nil {
		return nil, translateErr("list bills", err)
	}
	defer rows.Close()

	var bills []*domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, translateErr("scan bill", err)
		}
		bills = append(bills, b)
	}
	return bills, translateErr("list bills", rows.Err())
}

// MarkPaid is the explicit second step of the billing flow: the conditional
// on is_paid makes the false -> true flip happen exactly once, and the table
// is only released back to vacant here, never at bill creation.
func (r *billRepository) MarkPaid(ctx context.Context, id int64) (*domain.Bill, *domain.Table, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	tx, err := r.conn.pool.Begin(ctx)
	if err != nil {
		return nil, nil, translateErr("begin mark paid", err)
	}
	defer tx.Rollback(ctx)

	bill, err := scanBill(tx.QueryRow(ctx,
		`UPDATE bills SET is_paid = true, updated_at = now()
		 WHERE id = $1 AND is_paid = false
		 RETURNING `+billColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var paid bool
			if probeErr := r.conn.pool.QueryRow(ctx,
				`SELECT is_paid FROM bills WHERE id = $1`, id).Scan(&paid); probeErr != nil {
				return nil, nil, translateErr(fmt.Sprintf("bill %d", id), probeErr)
			}
			return nil, nil, domain.Conflictf("bill %d is already paid", id)
		}
		return nil, nil, translateErr("mark bill paid", err)
	}

	table, err := scanTable(tx.QueryRow(ctx,
		`UPDATE tables SET status = $1, current_order = NULL, updated_at = now()
		 WHERE table_number = $2 AND status = $3
		 RETURNING `+tableColumns,
		domain.TableVacant, bill.TableNumber, domain.TableBilled))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.Conflictf("table %d is not awaiting payment", bill.TableNumber)
		}
		return nil, nil, translateErr("release table", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, translateErr("commit mark paid", err)
	}
	return bill, table, nil
}
