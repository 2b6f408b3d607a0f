package utils

import (
	"github.com/SscSPs/sales_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the minor-unit precision of a currency code
// Example: amount 12.3456 with USD (2 places) returns "12.35"
// Example: amount 12.3456 with JPY (0 places) returns "12"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currencyCode string) string {
	return amount.StringFixed(accounting.MinorUnits(currencyCode))
}

// FormatWithPrecision formats an amount with the given precision
// This is a convenience function when you only have the precision value
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}
