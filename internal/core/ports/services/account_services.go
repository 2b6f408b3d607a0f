package services

import (
	"context"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
)

// AccountReaderSvc defines read operations for ledger accounts
type AccountReaderSvc interface {
	// GetAccountByCode retrieves a system account by its stable code.
	GetAccountByCode(ctx context.Context, code domain.AccountCode) (*domain.Account, error)

	// ListAccounts retrieves every ledger account.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountDirectorySvc resolves the fixed system accounts, creating them on demand.
type AccountDirectorySvc interface {
	// GetOrCreate returns the account for code, creating it from its template when absent.
	// Unknown codes are rejected with apperrors.ErrValidation.
	GetOrCreate(ctx context.Context, code domain.AccountCode) (*domain.Account, error)

	// Bootstrap ensures every system account exists.
	Bootstrap(ctx context.Context) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountDirectorySvc
}
