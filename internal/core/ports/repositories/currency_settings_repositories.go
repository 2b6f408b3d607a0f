package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
)

// CurrencySettingsReader defines read operations for the currency settings singleton
type CurrencySettingsReader interface {
	// GetSettings returns the singleton, or apperrors.ErrNotFound if it was never bootstrapped.
	GetSettings(ctx context.Context) (*domain.CurrencySettings, error)
}

// CurrencySettingsWriter defines write operations for the currency settings singleton
type CurrencySettingsWriter interface {
	// CreateSettingsIfAbsent stores defaults when no settings exist. It reports whether it created them.
	CreateSettingsIfAbsent(ctx context.Context, defaults domain.CurrencySettings) (bool, error)

	// SaveSettings replaces the user-configurable part of the settings (flags, frequency, currency list).
	SaveSettings(ctx context.Context, settings domain.CurrencySettings) error

	// SaveRates writes the refreshed rates of one batch in a single unit of work.
	// lastAutoUpdate is left untouched when nil.
	SaveRates(ctx context.Context, updates []domain.SupportedCurrency, lastAutoUpdate *time.Time) error
}

// CurrencySettingsRepositoryFacade combines all currency settings repository interfaces
type CurrencySettingsRepositoryFacade interface {
	CurrencySettingsReader
	CurrencySettingsWriter
}
