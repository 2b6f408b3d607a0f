package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InternalProvider names the pseudo-provider used for same-currency conversions.
const InternalProvider = "Internal"

// ExchangeRate is the result of one resolution; it is folded into CurrencySettings rather than stored.
type ExchangeRate struct {
	BaseCurrency   string          `json:"baseCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	ProviderName   string          `json:"providerName"`
	ObservedAt     time.Time       `json:"observedAt"`
}

// SchedulerState is the phase the rate scheduler is in.
type SchedulerState string

const (
	StateIdle     SchedulerState = "IDLE"
	StateChecking SchedulerState = "CHECKING"
	StateUpdating SchedulerState = "UPDATING"
	StateSkipped  SchedulerState = "SKIPPED"
)

// CurrencyOutcome is the result of refreshing a single currency in a batch.
type CurrencyOutcome struct {
	Currency string          `json:"currency"`
	Success  bool            `json:"success"`
	Rate     decimal.Decimal `json:"rate,omitempty"`
	Provider string          `json:"provider,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// RateUpdateSummary describes one pass of the rate scheduler.
type RateUpdateSummary struct {
	Skipped      bool              `json:"skipped"`
	SkipReason   string            `json:"skipReason,omitempty"`
	BaseCurrency string            `json:"baseCurrency,omitempty"`
	UpdatedCount int               `json:"updatedCount"`
	FailedCount  int               `json:"failedCount"`
	Outcomes     []CurrencyOutcome `json:"outcomes"`
	StartedAt    time.Time         `json:"startedAt"`
	FinishedAt   time.Time         `json:"finishedAt"`
	Error        string            `json:"error,omitempty"`
}
