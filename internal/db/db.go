// Package db provides the connection pool and the executor contracts the
// rest of the module is written against. The synchronizer and model layer
// never see a concrete pool type; they consume Executor/Beginner, which both
// *pgxpool.Pool and pgx.Tx satisfy.
package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor runs statements and queries. Statements run in the order
// submitted.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner is an Executor that can also open transactions with all-or-nothing
// visibility of their statements.
type Beginner interface {
	Executor
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Options controls pool sizing and the bounded connect retry.
type Options struct {
	MinConns int32
	MaxConns int32

	// Attempts is the total number of connection attempts (default 3).
	// Backoff is the wait after the first failure and grows linearly.
	Attempts int
	Backoff  time.Duration
}

func (o Options) withDefaults() Options {
	if o.MinConns <= 0 {
		o.MinConns = 1
	}
	if o.MaxConns <= 0 {
		o.MaxConns = 10
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = time.Second
	}
	return o
}

// Connect builds a pgx pool from dsn and verifies it with a ping, retrying
// failed attempts with linear backoff. The returned pool is ready for use.
func Connect(ctx context.Context, dsn string, opts Options) (*pgxpool.Pool, error) {
	opts = opts.withDefaults()

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MinConns = opts.MinConns
	cfg.MaxConns = opts.MaxConns

	var lastErr error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		if attempt < opts.Attempts {
			wait := opts.Backoff * time.Duration(attempt)
			log.Printf("database connection attempt %d/%d failed: %v (retrying in %s)", attempt, opts.Attempts, err, wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("connect after %d attempts: %w", opts.Attempts, lastErr)
}
