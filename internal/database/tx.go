package database

import (
	"context"
	"errors"
	"fmt"
)

// Transactor runs fn inside a single transaction. Repositories called with
// the ctx handed to fn take part in it. WithinReadTx gives fn a read-only
// transaction in which every read sees the same snapshot.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func withTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) (Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(Tx)
	return tx, ok && tx != nil
}

// Conn returns the transaction bound to ctx, or db when there is none.
func Conn(ctx context.Context, db DB) Querier {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return db
}

type TxRunner struct {
	db DB
}

func NewTxRunner(db DB) *TxRunner {
	return &TxRunner{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise. Nested calls
// join the outer transaction.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.run(ctx, false, fn)
}

// WithinReadTx is WithinTx on a read-only REPEATABLE READ transaction. Nested
// calls join the outer transaction whatever its mode.
func (r *TxRunner) WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.run(ctx, true, fn)
}

func (r *TxRunner) run(ctx context.Context, readOnly bool, fn func(ctx context.Context) error) (err error) {
	if fn == nil {
		return nil
	}
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	if r == nil || r.db == nil {
		return errors.New("nil db")
	}

	var tx Tx
	if readOnly {
		tx, err = r.db.BeginReadOnly(ctx)
	} else {
		tx, err = r.db.Begin(ctx)
	}
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.Background())
			panic(p)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(context.Background()); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
