package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxFunc is run by WithinTx against an open database transaction.
type TxFunc func(tx pgx.Tx) error

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction. Rolling back a finished transaction is not an error.
	Rollback(ctx context.Context, tx pgx.Tx) error

	// WithinTx commits when fn returns nil and rolls back otherwise. fn's error is returned unchanged.
	WithinTx(ctx context.Context, fn TxFunc) error
}
