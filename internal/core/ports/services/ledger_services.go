package services

import (
	"context"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
)

// LedgerWriterSvc posts balanced transactions from sales facts
type LedgerWriterSvc interface {
	// PostSale turns a sale or invoice into a posted, balanced transaction and updates account balances.
	PostSale(ctx context.Context, fact domain.SaleFact, createdBy string) (*domain.Transaction, error)
}

// LedgerReaderSvc defines read operations for posted transactions
type LedgerReaderSvc interface {
	// GetTransaction retrieves a transaction by its number.
	GetTransaction(ctx context.Context, number string) (*domain.Transaction, error)

	// ListTransactionsByReference retrieves the transactions posted for a sale reference.
	ListTransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
