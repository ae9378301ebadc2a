package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// WithTransaction begins a transaction on db, runs fn and commits. The
// transaction is rolled back when fn returns an error or panics; a panic is
// re-raised after the rollback.
func WithTransaction(ctx context.Context, db DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return wrap("begin", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return wrap("commit", err)
	}
	return nil
}

// Transactor runs a unit of work inside one transaction. Services depend on it
// instead of a pool so they can be tested without a database.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx DBTX) error) error
}

type poolTransactor struct {
	db DBTX
}

func NewTransactor(db DBTX) Transactor {
	return &poolTransactor{db: db}
}

func (t *poolTransactor) InTx(ctx context.Context, fn func(tx DBTX) error) error {
	return WithTransaction(ctx, t.db, func(tx pgx.Tx) error {
		return fn(tx)
	})
}
