package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tableserve/internal/config"
	"tableserve/internal/domain"
)

// Conn wraps a pgx pool and stamps every store operation with a bounded
// timeout, so no request can hang on the database indefinitely.
type Conn struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Conn, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	const (
		maxRetries = 5
		retryDelay = 2 * time.Second
	)

	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			return &Conn{pool: pool, timeout: timeout}, nil
		}
		pool.Close()
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, lastErr)
}

func (c *Conn) Close() {
	c.pool.Close()
}

func (c *Conn) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// translateErr maps driver failures onto the domain taxonomy: missing rows
// become ErrNotFound, timeouts and connectivity loss become the retryable
// ErrTransient. Everything else passes through wrapped.
func translateErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrTransient)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: duplicate: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
