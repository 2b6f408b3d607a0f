package domain

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

// AccountCode is the stable identifier the ledger uses to find its accounts.
type AccountCode string

const (
	AccountCash        AccountCode = "CASH"
	AccountReceivables AccountCode = "AR"
	AccountSales       AccountCode = "SALES"
	AccountTaxPayable  AccountCode = "TAX_PAY"
)

// Account represents a ledger account.
// Balance is the running sum of (debit - credit) over every entry posted against it.
type Account struct {
	AccountID   string          `json:"accountID"`
	Code        AccountCode     `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
}

// AccountTemplate holds the fixed attributes an account is created with.
type AccountTemplate struct {
	Name        string
	AccountType AccountType
	Category    string
	Description string
}

// SystemAccounts lists every account the posting engine may create on first use.
var SystemAccounts = map[AccountCode]AccountTemplate{
	AccountCash: {
		Name:        "Cash",
		AccountType: Asset,
		Category:    "current_assets",
		Description: "Cash received from completed sales",
	},
	AccountReceivables: {
		Name:        "Accounts Receivable",
		AccountType: Asset,
		Category:    "current_assets",
		Description: "Amounts owed by customers on unpaid invoices",
	},
	AccountSales: {
		Name:        "Sales Revenue",
		AccountType: Revenue,
		Category:    "operating_revenue",
		Description: "Revenue from sales, net of tax",
	},
	AccountTaxPayable: {
		Name:        "Tax Payable",
		AccountType: Liability,
		Category:    "current_liabilities",
		Description: "Sales tax collected and owed to the tax authority",
	},
}

// IsSystemAccount reports whether code is one the ledger knows how to create.
func IsSystemAccount(code AccountCode) bool {
	_, ok := SystemAccounts[code]
	return ok
}

// SystemAccountCodes returns the system account codes in a stable order.
func SystemAccountCodes() []AccountCode {
	return []AccountCode{AccountCash, AccountReceivables, AccountSales, AccountTaxPayable}
}
