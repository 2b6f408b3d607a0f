package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// BaseRepository holds the pool and the transaction helpers shared by the ledger repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// Begin starts a read-committed transaction on the pool.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, persistenceError("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits tx, wrapping failures as persistence errors.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return persistenceError("failed to commit transaction", err)
	}
	return nil
}

// Rollback aborts tx. pgx.ErrTxClosed means it already finished and is ignored.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return persistenceError("failed to rollback transaction", err)
	}
	return nil
}

// WithinTx runs fn inside one transaction.
func (r *BaseRepository) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = r.Rollback(ctx, tx)
		return err
	}
	return r.Commit(ctx, tx)
}

// persistenceError wraps a storage failure so callers can match apperrors.ErrPersistence.
func persistenceError(msg string, err error) error {
	return apperrors.NewAppError(500, msg, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err))
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
