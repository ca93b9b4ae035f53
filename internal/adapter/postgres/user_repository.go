package postgres

import (
	"context"
	"fmt"

	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type userRepository struct {
	conn *Conn
}

func NewUserRepository(conn *Conn) interfaces.UserRepository {
	return &userRepository{conn: conn}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	err := r.conn.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, role, is_active, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, created_at`,
		user.Username, user.PasswordHash, user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	return translateErr("create user", err)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	var u domain.User
	err := r.conn.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, is_active, created_at
		 FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, translateErr(fmt.Sprintf("user %q", username), err)
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	rows, err := r.conn.pool.Query(ctx,
		`SELECT id, username, password_hash, role, is_active, created_at
		 FROM users ORDER BY username`)
	if err != nil {
		return nil, translateErr("list users", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
		if err != nil {
			return nil, translateErr("scan user", err)
		}
		users = append(users, &u)
	}
	return users, translateErr("list users", rows.Err())
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.conn.opCtx(ctx)
	defer cancel()

	tag, err := r.conn.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translateErr("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("user %d", id)
	}
	return nil
}
