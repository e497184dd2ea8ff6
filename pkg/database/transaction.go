package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxFunc is the function type executed inside a transaction.
type TxFunc func(pgx.Tx) error

// TxRunner abstracts "run this function inside a transaction" so services
// can be unit-tested with a fake runner that passes a nil tx to mocked
// repositories.
type TxRunner interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// PgxRunner runs transactions against a pgxpool.Pool.
type PgxRunner struct {
	pool *pgxpool.Pool
}

func NewPgxRunner(pool *pgxpool.Pool) *PgxRunner {
	return &PgxRunner{pool: pool}
}

func (r *PgxRunner) WithinTx(ctx context.Context, fn TxFunc) error {
	return WithTransaction(ctx, r.pool, fn)
}

// WithTransaction wraps fn in a transaction.
// Rolls back on error or panic, commits otherwise.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback is a no-op after a successful commit.
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			tx.Rollback(ctx)
		}
	}()

	err = fn(tx)
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionResult wraps a function with a return value in a transaction.
func WithTransactionResult[T any](ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T
	var fnErr error

	err := WithTransaction(ctx, pool, func(tx pgx.Tx) error {
		result, fnErr = fn(tx)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
