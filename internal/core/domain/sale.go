package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is a line of the originating sale. The ledger only snapshots it.
type SaleItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// SaleFact is the economic fact supplied by the sales/invoice collaborator.
// Amounts are in the base currency; Currency/ExchangeRate describe the customer-facing denomination.
type SaleFact struct {
	Reference     string           `json:"reference" validate:"required"`
	InvoiceNumber string           `json:"invoiceNumber,omitempty"`
	InvoiceDate   *time.Time       `json:"invoiceDate,omitempty"`
	Total         decimal.Decimal  `json:"total"`
	TotalTax      decimal.Decimal  `json:"totalTax"`
	Currency      string           `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate,omitempty"`
	CustomerName  string           `json:"customerName,omitempty"`
	Items         []SaleItem       `json:"items,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	SalesOutlet   string           `json:"salesOutlet,omitempty"`
	SalesPerson   string           `json:"salesPerson,omitempty"`
	IsInvoice     bool             `json:"isInvoice"`
	IsPaid        bool             `json:"isPaid"`
}

// Unpaid reports whether the fact should be booked against receivables instead of cash.
func (f SaleFact) Unpaid() bool {
	return f.IsInvoice && !f.IsPaid
}
