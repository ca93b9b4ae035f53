package postgres

import (
	"context"

	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type transactionRepository struct {
	conn *Conn
}

func NewTransactionRepository(conn *Conn) interfaces.TransactionRepository {
	return &transactionRepository{conn: conn}
}

func (r *transactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	rows, err := r.conn.pool.Query(ctx,
		`SELECT id, table_number, order_id, bill_id, waiter_id, receptionist_id, total_amount, completed_at
		 FROM transactions ORDER BY completed_at DESC`)
	if err != nil {
		return nil, translateErr("list transactions", err)
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(&t.ID, &t.TableNumber, &t.OrderID, &t.BillID,
			&t.WaiterID, &t.ReceptionistID, &t.TotalAmount, &t.CompletedAt)
		if err != nil {
			return nil, translateErr("scan transaction", err)
		}
		txns = append(txns, &t)
	}
	return txns, translateErr("list transactions", rows.Err())
}
