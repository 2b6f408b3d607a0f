package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the economic event a ledger transaction records.
type TransactionType string

const (
	SaleTransaction TransactionType = "sale"
)

// TransactionStatus indicates the state of a ledger transaction.
type TransactionStatus string

const (
	Draft  TransactionStatus = "draft"
	Posted TransactionStatus = "posted"
)

// Entry is a single debit or credit line. Exactly one of Debit/Credit is non-zero.
type Entry struct {
	AccountID   string          `json:"accountID"`
	AccountCode AccountCode     `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// Delta is the effect of the entry on its account balance.
func (e Entry) Delta() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// TransactionMetadata records where a posted transaction came from.
type TransactionMetadata struct {
	SalesPerson   string    `json:"salesPerson,omitempty"`
	SalesOutlet   string    `json:"salesOutlet,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	BaseCurrency  string    `json:"baseCurrency"`
	ExchangeRate  string    `json:"exchangeRate"`
	OriginalSale  *SaleFact `json:"originalSale,omitempty"`
}

// Transaction is a balanced ledger record produced from one sale or invoice.
type Transaction struct {
	TransactionID     string              `json:"transactionID"`
	TransactionNumber string              `json:"transactionNumber"`
	Date              time.Time           `json:"date"`
	Description       string              `json:"description"`
	Type              TransactionType     `json:"type"`
	Reference         string              `json:"reference"`
	ReferenceID       string              `json:"referenceID"`
	Amount            decimal.Decimal     `json:"amount"`
	Currency          string              `json:"currency"`
	Entries           []Entry             `json:"entries"`
	Status            TransactionStatus   `json:"status"`
	CreatedBy         string              `json:"createdBy"`
	CreatedAt         time.Time           `json:"createdAt"`
	Metadata          TransactionMetadata `json:"metadata"`
}

// Totals returns the sum of debits and the sum of credits.
func (t *Transaction) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range t.Entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	return debits, credits
}

// BalanceDeltas aggregates the per-account effect of the transaction.
func (t *Transaction) BalanceDeltas() map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal, len(t.Entries))
	for _, e := range t.Entries {
		deltas[e.AccountID] = deltas[e.AccountID].Add(e.Delta())
	}
	return deltas
}

// FormatTransactionNumber renders an allocated sequence value as a transaction number, e.g. TXN000123.
func FormatTransactionNumber(seq int64) string {
	return fmt.Sprintf("TXN%06d", seq)
}
