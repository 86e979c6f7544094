// Package postgres opens pgx-backed sqlx connections and applies
// schema migrations.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool holds connection pool limits. Zero values fall back to the
// package defaults.
type Pool struct {
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	MaxIdleConns    int
	MaxOpenConns    int
}

const (
	defaultConnMaxIdleTime = 5 * time.Minute
	defaultConnMaxLifetime = 30 * time.Minute
	defaultMaxIdleConns    = 5
	defaultMaxOpenConns    = 25
)

func (p Pool) apply(db *sqlx.DB) {
	if p.ConnMaxIdleTime == 0 {
		p.ConnMaxIdleTime = defaultConnMaxIdleTime
	}
	if p.ConnMaxLifetime == 0 {
		p.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if p.MaxIdleConns == 0 {
		p.MaxIdleConns = defaultMaxIdleConns
	}
	if p.MaxOpenConns == 0 {
		p.MaxOpenConns = defaultMaxOpenConns
	}

	db.SetConnMaxIdleTime(p.ConnMaxIdleTime)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetMaxOpenConns(p.MaxOpenConns)
}

// Connect opens a database connection for the given DSN, verifies it
// and configures the pool.
func Connect(ctx context.Context, dsn string, pool Pool) (*sqlx.DB, error) {
	const op = "postgres.Connect"

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	pool.apply(db)

	return db, nil
}
