package utils_test

import (
	"testing"

	"github.com/SscSPs/sales_ledger/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	amount := decimal.RequireFromString("12.3456")

	assert.Equal(t, "12.35", utils.FormatWithCurrencyPrecision(amount, "USD"))
	assert.Equal(t, "12", utils.FormatWithCurrencyPrecision(amount, "JPY"))
	assert.Equal(t, "1350000.00", utils.FormatWithCurrencyPrecision(decimal.NewFromInt(1350000), "ZWL"))
	assert.Equal(t, "12.346", utils.FormatWithPrecision(amount, 3))
}
