package postgres

import (
	"context"
	"fmt"

	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type menuRepository struct {
	conn *Conn
}

func NewMenuRepository(conn *Conn) interfaces.MenuRepository {
	return &menuRepository{conn: conn}
}

const menuColumns = `id, name, category, price, description, created_at, updated_at`

func (r *menuRepository) List(ctx context.Context) ([]*domain.MenuItem, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	rows, err := r.conn.pool.Query(ctx,
		`SELECT `+menuColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, translateErr("list menu", err)
	}
	defer rows.Close()

	var items []*domain.MenuItem
	for rows.Next() {
		var m domain.MenuItem
		err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.Description, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, translateErr("scan menu item", err)
		}
		items = append(items, &m)
	}
	return items, translateErr("list menu", rows.Err())
}

func (r *menuRepository) Get(ctx context.Context, id int64) (*domain.MenuItem, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	var m domain.MenuItem
	err := r.conn.pool.QueryRow(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, translateErr(fmt.Sprintf("menu item %d", id), err)
	}
	return &m, nil
}

func (r *menuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	err := r.conn.pool.QueryRow(ctx,
		`INSERT INTO menu_items (name, category, price, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, created_at, updated_at`,
		item.Name, item.Category, item.Price, item.Description,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return translateErr("create menu item", err)
}

func (r *menuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	tag, err := r.conn.pool.Exec(ctx,
		`UPDATE menu_items SET name = $1, category = $2, price = $3, description = $4, updated_at = now()
		 WHERE id = $5`,
		item.Name, item.Category, item.Price, item.Description, item.ID)
	if err != nil {
		return translateErr("update menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("menu item %d", item.ID)
	}
	return nil
}

func (r *menuRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	tag, err := r.conn.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return translateErr("delete menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("menu item %d", id)
	}
	return nil
}
