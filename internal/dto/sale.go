package dto

import (
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one line of the sale being posted.
type SaleItemRequest struct {
	Name      string          `json:"name" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// PostSaleRequest defines the sale/invoice facts submitted for posting.
// Total and TotalTax are expressed in the base currency.
type PostSaleRequest struct {
	Reference     string            `json:"reference" binding:"required"`
	InvoiceNumber string            `json:"invoiceNumber"`
	InvoiceDate   *time.Time        `json:"invoiceDate"`
	Total         decimal.Decimal   `json:"total"`
	TotalTax      decimal.Decimal   `json:"totalTax"`
	Currency      string            `json:"currency" binding:"omitempty,len=3,uppercase"`
	ExchangeRate  *decimal.Decimal  `json:"exchangeRate"`
	CustomerName  string            `json:"customerName"`
	Items         []SaleItemRequest `json:"items" binding:"dive"`
	PaymentMethod string            `json:"paymentMethod"`
	SalesOutlet   string            `json:"salesOutlet"`
	SalesPerson   string            `json:"salesPerson"`
	IsInvoice     bool              `json:"isInvoice"`
	IsPaid        bool              `json:"isPaid"`
}

// ToSaleFact converts the request into the domain fact handed to the ledger.
func (r PostSaleRequest) ToSaleFact() domain.SaleFact {
	items := make([]domain.SaleItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = domain.SaleItem{Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return domain.SaleFact{
		Reference:     r.Reference,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		Total:         r.Total,
		TotalTax:      r.TotalTax,
		Currency:      r.Currency,
		ExchangeRate:  r.ExchangeRate,
		CustomerName:  r.CustomerName,
		Items:         items,
		PaymentMethod: r.PaymentMethod,
		SalesOutlet:   r.SalesOutlet,
		SalesPerson:   r.SalesPerson,
		IsInvoice:     r.IsInvoice,
		IsPaid:        r.IsPaid,
	}
}
