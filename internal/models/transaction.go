package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table. Metadata is stored as JSONB.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	TransactionNumber string          `db:"transaction_number"`
	Date              time.Time       `db:"transaction_date"`
	Description       string          `db:"description"`
	Type              string          `db:"transaction_type"`
	Reference         string          `db:"reference"`
	ReferenceID       string          `db:"reference_id"`
	Amount            decimal.Decimal `db:"amount"`
	Currency          string          `db:"currency"`
	Status            string          `db:"status"`
	Metadata          []byte          `db:"metadata"`
	CreatedBy         string          `db:"created_by"`
	CreatedAt         time.Time       `db:"created_at"`
}

// Entry is a row of the transaction_entries table.
type Entry struct {
	TransactionID string          `db:"transaction_id"`
	Position      int             `db:"position"`
	AccountID     string          `db:"account_id"`
	AccountCode   string          `db:"account_code"`
	Debit         decimal.Decimal `db:"debit"`
	Credit        decimal.Decimal `db:"credit"`
	Description   string          `db:"description"`
}
