package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateFrequency controls how often automatic rate refreshes are due.
type UpdateFrequency string

const (
	Hourly UpdateFrequency = "hourly"
	Daily  UpdateFrequency = "daily"
	Weekly UpdateFrequency = "weekly"
)

// Interval returns the minimum time between two automatic refreshes.
// Unknown values fall back to daily.
func (f UpdateFrequency) Interval() time.Duration {
	switch f {
	case Hourly:
		return time.Hour
	case Weekly:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Valid reports whether f is one of the known frequencies.
func (f UpdateFrequency) Valid() bool {
	switch f {
	case Hourly, Daily, Weekly:
		return true
	}
	return false
}

// SupportedCurrency is a currency the business transacts in, with its last known rate against the base currency.
type SupportedCurrency struct {
	Code         string          `json:"code"`
	IsActive     bool            `json:"isActive"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	LastUpdated  *time.Time      `json:"lastUpdated,omitempty"`
}

// CurrencySettings is the singleton document holding base currency and auto-update configuration.
type CurrencySettings struct {
	BaseCurrency        string              `json:"baseCurrency"`
	DefaultCurrency     string              `json:"defaultCurrency"`
	SupportedCurrencies []SupportedCurrency `json:"supportedCurrencies"`
	AutoUpdateRates     bool                `json:"autoUpdateRates"`
	UpdateFrequency     UpdateFrequency     `json:"updateFrequency"`
	LastAutoUpdate      *time.Time          `json:"lastAutoUpdate,omitempty"`
	LastUpdatedAt       time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy       string              `json:"lastUpdatedBy"`
}

// Find returns the supported currency with the given code.
func (s *CurrencySettings) Find(code string) (SupportedCurrency, bool) {
	for _, c := range s.SupportedCurrencies {
		if c.Code == code {
			return c, true
		}
	}
	return SupportedCurrency{}, false
}

// RefreshTargets returns the active currencies that need a fetched rate.
// The base currency is always rate 1 and is never fetched.
func (s *CurrencySettings) RefreshTargets() []string {
	targets := make([]string, 0, len(s.SupportedCurrencies))
	for _, c := range s.SupportedCurrencies {
		if !c.IsActive || c.Code == s.BaseCurrency {
			continue
		}
		targets = append(targets, c.Code)
	}
	return targets
}

// IsDue reports whether an automatic refresh should run at now.
// A settings document that has never been refreshed is always due.
func (s *CurrencySettings) IsDue(now time.Time) bool {
	if s.LastAutoUpdate == nil {
		return true
	}
	return now.Sub(*s.LastAutoUpdate) >= s.UpdateFrequency.Interval()
}
