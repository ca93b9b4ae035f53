package postgres

import (
	"context"
	"fmt"

	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type tableRepository struct {
	conn *Conn
}

func NewTableRepository(conn *Conn) interfaces.TableRepository {
	return &tableRepository{conn: conn}
}

const tableColumns = `table_number, status, current_order, created_at, updated_at`

func scanTable(row interface{ Scan(dest ...any) error }) (*domain.Table, error) {
	var t domain.Table
	err := row.Scan(&t.TableNumber, &t.Status, &t.CurrentOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tableRepository) List(ctx context.Context) ([]*domain.Table, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	rows, err := r.conn.pool.Query(ctx,
		`SELECT `+tableColumns+` FROM tables ORDER BY table_number`)
	if err != nil {
		return nil, translateErr("list tables", err)
	}
	defer rows.Close()

	var tables []*domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, translateErr("scan table", err)
		}
		tables = append(tables, t)
	}
	return tables, translateErr("list tables", rows.Err())
}

func (r *tableRepository) Get(ctx context.Context, tableNumber int) (*domain.Table, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	t, err := scanTable(r.conn.pool.QueryRow(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE table_number = $1`, tableNumber))
	if err != nil {
		return nil, translateErr(fmt.Sprintf("get table %d", tableNumber), err)
	}
	return t, nil
}

func (r *tableRepository) Initialize(ctx context.Context, count int) error {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	tx, err := r.conn.pool.Begin(ctx)
	if err != nil {
		return translateErr("begin initialize tables", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tables`); err != nil {
		return translateErr("wipe tables", err)
	}
	for n := 1; n <= count; n++ {
		_, err := tx.Exec(ctx,
			`INSERT INTO tables (table_number, status, created_at, updated_at)
			 VALUES ($1, $2, now(), now())`, n, domain.TableVacant)
		if err != nil {
			return translateErr("insert table", err)
		}
	}

	return translateErr("commit initialize tables", tx.Commit(ctx))
}
