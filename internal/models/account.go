package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Revenue   AccountType = "REVENUE"
)

// Account is a row of the accounts table. Code is unique.
type Account struct {
	AccountID   string          `db:"account_id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	AccountType AccountType     `db:"account_type"`
	Category    string          `db:"category"`
	Description string          `db:"description"`
	Balance     decimal.Decimal `db:"balance"` // running sum of debit - credit
	AuditFields
}
