package services

import (
	"context"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/SscSPs/sales_ledger/internal/dto"
)

// CurrencySettingsReaderSvc defines read operations for the currency settings
type CurrencySettingsReaderSvc interface {
	// GetSettings returns the current currency settings.
	GetSettings(ctx context.Context) (*domain.CurrencySettings, error)
}

// CurrencySettingsWriterSvc defines write operations for the currency settings
type CurrencySettingsWriterSvc interface {
	// UpdateSettings applies a partial configuration change.
	UpdateSettings(ctx context.Context, req dto.UpdateCurrencySettingsRequest, userID string) (*domain.CurrencySettings, error)

	// Bootstrap creates the settings record from configured defaults if none exists.
	Bootstrap(ctx context.Context) (*domain.CurrencySettings, error)
}

// CurrencySettingsSvcFacade combines all currency settings service interfaces
type CurrencySettingsSvcFacade interface {
	CurrencySettingsReaderSvc
	CurrencySettingsWriterSvc
}

// RateProvider is a single external exchange rate source.
type RateProvider interface {
	// Name is the human-readable provider name recorded on resolved rates.
	Name() string
	// Key is the stable identifier used to select a preferred provider.
	Key() string
	// FetchRate performs one lookup for base->target.
	FetchRate(ctx context.Context, base, target string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade resolves exchange rates across the registered providers.
type ExchangeRateSvcFacade interface {
	// Resolve returns the rate for base->target, trying the preferred provider first.
	// When every provider fails the error is an *apperrors.ResolutionError.
	Resolve(ctx context.Context, base, target, preferredKey string) (*domain.ExchangeRate, error)

	// Providers lists the provider keys in fallback order.
	Providers() []string
}

// RateUpdaterSvc refreshes the stored rates of every supported currency.
type RateUpdaterSvc interface {
	// CheckAndUpdate runs a refresh only when automatic updates are enabled and due.
	CheckAndUpdate(ctx context.Context) (*domain.RateUpdateSummary, error)

	// ForceUpdate runs a refresh regardless of the due check.
	ForceUpdate(ctx context.Context) (*domain.RateUpdateSummary, error)

	// LastSummary returns the summary of the most recent run, or nil.
	LastSummary() *domain.RateUpdateSummary
}
