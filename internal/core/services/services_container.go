package services

import (
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/platform/config"
)

// Dependencies are the adapters the services are wired to.
type Dependencies struct {
	Providers []portssvc.RateProvider
	Publisher portssvc.EventPublisher
	Metrics   portssvc.MetricsRecorder
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The returned RateUpdater also backs the container's RateUpdater field and is what the scheduler drives.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Dependencies) (*portssvc.ServiceContainer, RateUpdater) {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)

	container.CurrencySettings = NewCurrencySettingsService(repos.CurrencySettingsRepo, CurrencyDefaults{
		BaseCurrency:    cfg.BaseCurrency,
		DefaultCurrency: cfg.DefaultCurrency,
		Supported:       cfg.SupportedCurrencies,
		AutoUpdateRates: cfg.AutoUpdateRates,
		UpdateFrequency: domain.UpdateFrequency(cfg.RateUpdateFrequency),
	})

	container.ExchangeRate = NewExchangeRateService(deps.Providers, WithExchangeRateMetrics(deps.Metrics))

	updater := NewRateUpdateService(
		repos.CurrencySettingsRepo,
		container.ExchangeRate,
		RateUpdaterConfig{
			Concurrency:       cfg.RateBatchConcurrency,
			BatchTimeout:      cfg.RateBatchTimeout,
			PreferredProvider: cfg.RatePreferredProvider,
		},
		WithRateUpdaterMetrics(deps.Metrics),
		WithRateUpdaterPublisher(deps.Publisher),
	)
	container.RateUpdater = updater

	container.Ledger = NewLedgerService(
		container.Account,
		container.CurrencySettings,
		repos.TransactionRepo,
		WithLedgerMetrics(deps.Metrics),
		WithLedgerPublisher(deps.Publisher),
	)

	return container, updater
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade          = (*accountService)(nil)
	_ portssvc.CurrencySettingsSvcFacade = (*currencySettingsService)(nil)
	_ portssvc.ExchangeRateSvcFacade     = (*exchangeRateService)(nil)
	_ portssvc.RateUpdaterSvc            = (*rateUpdateService)(nil)
	_ portssvc.LedgerSvcFacade           = (*ledgerService)(nil)
)
