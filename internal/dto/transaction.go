package dto

import (
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryResponse is a single debit/credit line of a transaction.
type EntryResponse struct {
	AccountID   string             `json:"accountID"`
	AccountCode domain.AccountCode `json:"accountCode"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
	Description string             `json:"description"`
}

// TransactionResponse is the transaction record emitted to the rest of the system.
type TransactionResponse struct {
	TransactionID     string                     `json:"transactionID"`
	TransactionNumber string                     `json:"transactionNumber"`
	Date              time.Time                  `json:"date"`
	Description       string                     `json:"description"`
	Type              domain.TransactionType     `json:"type"`
	Reference         string                     `json:"reference"`
	ReferenceID       string                     `json:"referenceID"`
	Amount            decimal.Decimal            `json:"amount"`
	Currency          string                     `json:"currency"`
	Entries           []EntryResponse            `json:"entries"`
	Status            domain.TransactionStatus   `json:"status"`
	CreatedBy         string                     `json:"createdBy"`
	CreatedAt         time.Time                  `json:"createdAt"`
	Metadata          domain.TransactionMetadata `json:"metadata"`
}

// ListTransactionsResponse wraps a list of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	entries := make([]EntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = EntryResponse{
			AccountID:   e.AccountID,
			AccountCode: e.AccountCode,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Description: e.Description,
		}
	}
	return TransactionResponse{
		TransactionID:     t.TransactionID,
		TransactionNumber: t.TransactionNumber,
		Date:              t.Date,
		Description:       t.Description,
		Type:              t.Type,
		Reference:         t.Reference,
		ReferenceID:       t.ReferenceID,
		Amount:            t.Amount,
		Currency:          t.Currency,
		Entries:           entries,
		Status:            t.Status,
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		Metadata:          t.Metadata,
	}
}

// ToListTransactionsResponse converts a slice of domain transactions.
func ToListTransactionsResponse(txns []domain.Transaction) ListTransactionsResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: out}
}
