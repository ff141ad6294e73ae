package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLiteScheme prefixes DATABASE_URL values that select the embedded store,
// e.g. "sqlite:aurasat.db" or "sqlite::memory:".
const SQLiteScheme = "sqlite:"

// NewPool opens a PostgreSQL pool and pings it before returning.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Open connects to the contact store named by databaseURL: SQLite for
// "sqlite:" URLs, PostgreSQL otherwise.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	if dsn, ok := strings.CutPrefix(databaseURL, SQLiteScheme); ok {
		dsn = strings.TrimPrefix(dsn, "//")
		store, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
		}
		return store, nil
	}
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewPgContactRepository(pool), nil
}
