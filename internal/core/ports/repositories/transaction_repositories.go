package repositories

import (
	"context"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	// FindTransactionByNumber retrieves a transaction and its entries by transaction number.
	FindTransactionByNumber(ctx context.Context, number string) (*domain.Transaction, error)

	// ListTransactionsByReference retrieves every transaction posted for a sale/invoice reference.
	ListTransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger transactions
type TransactionWriter interface {
	// PostTransaction atomically allocates the next transaction number, stores the
	// transaction with its entries and applies every entry's (debit - credit) to its account.
	// Either all of it is committed or none of it is.
	PostTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
