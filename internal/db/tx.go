package db

import (
	"context"
	"database/sql"
)

type txKey struct{}

// TxBeginner is implemented by stores that can group writes in one
// transaction. The memory store is not one: its methods lock individually.
type TxBeginner interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// ActiveTx returns the transaction InTx placed in ctx, or nil.
func ActiveTx(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// InTx runs fn inside one transaction of s and commits when fn returns nil.
// Nested calls join the outer transaction. Stores without transactions run
// fn directly.
func InTx(ctx context.Context, s Store, fn func(ctx context.Context) error) error {
	b, ok := s.(TxBeginner)
	if !ok || ActiveTx(ctx) != nil {
		return fn(ctx)
	}
	tx, err := b.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
