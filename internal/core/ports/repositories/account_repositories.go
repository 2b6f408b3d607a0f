package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByCode retrieves an account by its stable code.
	// Returns apperrors.ErrNotFound when no account has that code.
	FindAccountByCode(ctx context.Context, code domain.AccountCode) (*domain.Account, error)

	// ListAccounts retrieves every ledger account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// CreateAccountIfAbsent inserts the account unless one with the same code exists,
	// and returns whichever row is stored. Uniqueness is enforced by the store, not the caller.
	CreateAccountIfAbsent(ctx context.Context, account domain.Account) (*domain.Account, error)
}

// AccountTransactionSupport defines operations that support account transactions
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them for update within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx updates the balance for multiple accounts within a given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines the account operations services depend on
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	AccountTransactionSupport
	TransactionManager
}
