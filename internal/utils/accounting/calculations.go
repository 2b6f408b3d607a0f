package accounting

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultMinorUnits is used for codes go-money does not know.
const DefaultMinorUnits = 2

// MinorUnits returns the number of decimal places of the currency's smallest unit.
func MinorUnits(code string) int32 {
	if c := money.GetCurrency(code); c != nil {
		return int32(c.Fraction)
	}
	return DefaultMinorUnits
}

// BalanceTolerance is the largest |debits - credits| accepted for a currency: 1e-9 of its smallest unit.
func BalanceTolerance(code string) decimal.Decimal {
	return decimal.New(1, -(MinorUnits(code) + 9))
}

// ExceedsPrecision reports whether amount carries digits below the currency's minor unit.
func ExceedsPrecision(amount decimal.Decimal, code string) bool {
	return !amount.Equal(amount.Round(MinorUnits(code)))
}

// SaleAmounts are the three monetary legs of a sale in the transaction currency.
type SaleAmounts struct {
	Total decimal.Decimal
	Tax   decimal.Decimal
	Net   decimal.Decimal
}

// ConvertSaleAmounts converts base-currency total and tax into the transaction currency.
// When convert is false the amounts are taken as-is. Total and tax are rounded to the
// currency's minor unit and net is derived from them, so total == net + tax always holds.
func ConvertSaleAmounts(total, tax, rate decimal.Decimal, currency string, convert bool) SaleAmounts {
	if convert {
		total = total.Mul(rate)
		tax = tax.Mul(rate)
	}
	places := MinorUnits(currency)
	total = total.Round(places)
	tax = tax.Round(places)
	return SaleAmounts{Total: total, Tax: tax, Net: total.Sub(tax)}
}

// CalculateBalanceDelta is the change an entry makes to its account: debit - credit, for every account type.
func CalculateBalanceDelta(entry domain.Entry) decimal.Decimal {
	return entry.Debit.Sub(entry.Credit)
}

// ValidateEntries checks the per-entry law: amounts are non-negative and exactly one side is non-zero.
func ValidateEntries(entries []domain.Entry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: a transaction needs at least two entries", apperrors.ErrLedgerImbalance)
	}
	for i, e := range entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return fmt.Errorf("%w: entry %d has a negative amount", apperrors.ErrLedgerImbalance, i)
		}
		if e.Debit.IsZero() == e.Credit.IsZero() {
			return fmt.Errorf("%w: entry %d must be either a debit or a credit", apperrors.ErrLedgerImbalance, i)
		}
	}
	return nil
}

// ImbalanceError reports debits and credits that do not agree within tolerance.
type ImbalanceError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("%s: debits %s != credits %s", apperrors.ErrLedgerImbalance, e.Debits, e.Credits)
}

func (e *ImbalanceError) Unwrap() error {
	return apperrors.ErrLedgerImbalance
}

// ValidateBalance enforces sum(debit) == sum(credit) within the currency's tolerance.
func ValidateBalance(txn *domain.Transaction) error {
	if err := ValidateEntries(txn.Entries); err != nil {
		return err
	}
	debits, credits := txn.Totals()
	if debits.Sub(credits).Abs().GreaterThan(BalanceTolerance(txn.Currency)) {
		return &ImbalanceError{Debits: debits, Credits: credits}
	}
	return nil
}
