package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySettings is the single row of the currency_settings table (id = 1).
type CurrencySettings struct {
	BaseCurrency    string     `db:"base_currency"`
	DefaultCurrency string     `db:"default_currency"`
	AutoUpdateRates bool       `db:"auto_update_rates"`
	UpdateFrequency string     `db:"update_frequency"`
	LastAutoUpdate  *time.Time `db:"last_auto_update"`
	LastUpdatedAt   time.Time  `db:"last_updated_at"`
	LastUpdatedBy   string     `db:"last_updated_by"`
}

// SupportedCurrency is a row of the supported_currencies table, ordered by position.
type SupportedCurrency struct {
	Code         string          `db:"code"`
	Position     int             `db:"position"`
	IsActive     bool            `db:"is_active"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	LastUpdated  *time.Time      `db:"last_updated"`
}
