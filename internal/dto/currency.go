package dto

import (
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SupportedCurrencyRequest is one entry of the supported currency list.
type SupportedCurrencyRequest struct {
	Code         string           `json:"code" binding:"required,uppercase,len=3"`
	IsActive     bool             `json:"isActive"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate"`
}

// UpdateCurrencySettingsRequest defines the fields that may be changed on the
// currency settings record. Nil fields are left untouched.
type UpdateCurrencySettingsRequest struct {
	DefaultCurrency     *string                    `json:"defaultCurrency" binding:"omitempty,uppercase,len=3"`
	SupportedCurrencies []SupportedCurrencyRequest `json:"supportedCurrencies" binding:"omitempty,dive"`
	AutoUpdateRates     *bool                      `json:"autoUpdateRates"`
	UpdateFrequency     *string                    `json:"updateFrequency" binding:"omitempty,oneof=hourly daily weekly"`
}

// SupportedCurrencyResponse defines the data returned for a supported currency.
type SupportedCurrencyResponse struct {
	Code         string          `json:"code"`
	IsActive     bool            `json:"isActive"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	LastUpdated  *time.Time      `json:"lastUpdated,omitempty"`
}

// CurrencySettingsResponse defines the data returned for the currency settings record.
type CurrencySettingsResponse struct {
	BaseCurrency        string                      `json:"baseCurrency"`
	DefaultCurrency     string                      `json:"defaultCurrency"`
	SupportedCurrencies []SupportedCurrencyResponse `json:"supportedCurrencies"`
	AutoUpdateRates     bool                        `json:"autoUpdateRates"`
	UpdateFrequency     domain.UpdateFrequency      `json:"updateFrequency"`
	LastAutoUpdate      *time.Time                  `json:"lastAutoUpdate,omitempty"`
	LastUpdatedAt       time.Time                   `json:"lastUpdatedAt"`
	LastUpdatedBy       string                      `json:"lastUpdatedBy"`
}

// ToCurrencySettingsResponse converts domain.CurrencySettings to its DTO.
func ToCurrencySettingsResponse(s *domain.CurrencySettings) CurrencySettingsResponse {
	list := make([]SupportedCurrencyResponse, len(s.SupportedCurrencies))
	for i, c := range s.SupportedCurrencies {
		list[i] = SupportedCurrencyResponse{
			Code:         c.Code,
			IsActive:     c.IsActive,
			ExchangeRate: c.ExchangeRate,
			LastUpdated:  c.LastUpdated,
		}
	}
	return CurrencySettingsResponse{
		BaseCurrency:        s.BaseCurrency,
		DefaultCurrency:     s.DefaultCurrency,
		SupportedCurrencies: list,
		AutoUpdateRates:     s.AutoUpdateRates,
		UpdateFrequency:     s.UpdateFrequency,
		LastAutoUpdate:      s.LastAutoUpdate,
		LastUpdatedAt:       s.LastUpdatedAt,
		LastUpdatedBy:       s.LastUpdatedBy,
	}
}

// ExchangeRateResponse defines the structure for API responses containing a resolved rate.
type ExchangeRateResponse struct {
	BaseCurrency   string          `json:"baseCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	Provider       string          `json:"provider"`
	ObservedAt     time.Time       `json:"observedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		BaseCurrency:   rate.BaseCurrency,
		TargetCurrency: rate.TargetCurrency,
		Rate:           rate.Rate,
		Provider:       rate.ProviderName,
		ObservedAt:     rate.ObservedAt,
	}
}

// ProviderFailureResponse describes one provider's failure in an aggregate resolution error.
type ProviderFailureResponse struct {
	Provider string `json:"provider"`
	Error    string `json:"error"`
}

// RateUpdateSummaryResponse reports the outcome of a rate update run.
type RateUpdateSummaryResponse struct {
	Skipped      bool                     `json:"skipped"`
	SkipReason   string                   `json:"skipReason,omitempty"`
	BaseCurrency string                   `json:"baseCurrency"`
	UpdatedCount int                      `json:"updatedCount"`
	FailedCount  int                      `json:"failedCount"`
	Outcomes     []domain.CurrencyOutcome `json:"outcomes"`
	StartedAt    time.Time                `json:"startedAt"`
	FinishedAt   time.Time                `json:"finishedAt"`
	Error        string                   `json:"error,omitempty"`
}

// ToRateUpdateSummaryResponse converts a run summary to its DTO.
func ToRateUpdateSummaryResponse(s *domain.RateUpdateSummary) RateUpdateSummaryResponse {
	return RateUpdateSummaryResponse{
		Skipped:      s.Skipped,
		SkipReason:   s.SkipReason,
		BaseCurrency: s.BaseCurrency,
		UpdatedCount: s.UpdatedCount,
		FailedCount:  s.FailedCount,
		Outcomes:     s.Outcomes,
		StartedAt:    s.StartedAt,
		FinishedAt:   s.FinishedAt,
		Error:        s.Error,
	}
}
