package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/sales_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// settingsRowID is the primary key of the only currency_settings row.
const settingsRowID = 1

type PgxCurrencySettingsRepository struct {
	BaseRepository
}

// newPgxCurrencySettingsRepository creates a new repository for the currency settings singleton.
func newPgxCurrencySettingsRepository(pool *pgxpool.Pool) *PgxCurrencySettingsRepository {
	return &PgxCurrencySettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CurrencySettingsRepositoryFacade = (*PgxCurrencySettingsRepository)(nil)

func toDomainSettings(m models.CurrencySettings, list []models.SupportedCurrency) *domain.CurrencySettings {
	s := &domain.CurrencySettings{
		BaseCurrency:        m.BaseCurrency,
		DefaultCurrency:     m.DefaultCurrency,
		AutoUpdateRates:     m.AutoUpdateRates,
		UpdateFrequency:     domain.UpdateFrequency(m.UpdateFrequency),
		LastAutoUpdate:      m.LastAutoUpdate,
		LastUpdatedAt:       m.LastUpdatedAt,
		LastUpdatedBy:       m.LastUpdatedBy,
		SupportedCurrencies: make([]domain.SupportedCurrency, len(list)),
	}
	for i, c := range list {
		s.SupportedCurrencies[i] = domain.SupportedCurrency{
			Code:         c.Code,
			IsActive:     c.IsActive,
			ExchangeRate: c.ExchangeRate,
			LastUpdated:  c.LastUpdated,
		}
	}
	return s
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxCurrencySettingsRepository) load(ctx context.Context, q querier, lock bool) (*domain.CurrencySettings, error) {
	query := `
		SELECT base_currency, default_currency, auto_update_rates, update_frequency, last_auto_update, last_updated_at, last_updated_by
		FROM currency_settings
		WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var m models.CurrencySettings
	err := q.QueryRow(ctx, query, settingsRowID).Scan(
		&m.BaseCurrency,
		&m.DefaultCurrency,
		&m.AutoUpdateRates,
		&m.UpdateFrequency,
		&m.LastAutoUpdate,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read currency settings: %w", err)
	}

	rows, err := q.Query(ctx, `SELECT code, position, is_active, exchange_rate, last_updated FROM supported_currencies ORDER BY position;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query supported currencies: %w", err)
	}
	defer rows.Close()

	list := []models.SupportedCurrency{}
	for rows.Next() {
		var c models.SupportedCurrency
		if err := rows.Scan(&c.Code, &c.Position, &c.IsActive, &c.ExchangeRate, &c.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan supported currency: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supported currencies: %w", err)
	}
	return toDomainSettings(m, list), nil
}

// GetSettings returns the settings row with its currency list.
func (r *PgxCurrencySettingsRepository) GetSettings(ctx context.Context) (*domain.CurrencySettings, error) {
	return r.load(ctx, r.Pool, false)
}

// CreateSettingsIfAbsent inserts the defaults unless the row already exists.
func (r *PgxCurrencySettingsRepository) CreateSettingsIfAbsent(ctx context.Context, defaults domain.CurrencySettings) (bool, error) {
	created := false
	err := r.WithinTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO currency_settings (id, base_currency, default_currency, auto_update_rates, update_frequency, last_auto_update, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING;`,
			settingsRowID,
			defaults.BaseCurrency,
			defaults.DefaultCurrency,
			defaults.AutoUpdateRates,
			string(defaults.UpdateFrequency),
			defaults.LastAutoUpdate,
			defaults.LastUpdatedAt,
			defaults.LastUpdatedBy,
		)
		if err != nil {
			return persistenceError("failed to insert currency settings", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, c := range defaults.SupportedCurrencies {
			batch.Queue(`INSERT INTO supported_currencies (code, position, is_active, exchange_rate, last_updated) VALUES ($1, $2, $3, $4, $5);`,
				c.Code, i, c.IsActive, c.ExchangeRate, c.LastUpdated)
		}
		if err := sendBatch(ctx, tx, batch, "failed to insert supported currencies"); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// upsertSupported keeps the stored rate when it was refreshed after the incoming copy was read.
const upsertSupported = `
	INSERT INTO supported_currencies (code, position, is_active, exchange_rate, last_updated)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (code) DO UPDATE SET
		position = EXCLUDED.position,
		is_active = EXCLUDED.is_active,
		exchange_rate = CASE
			WHEN supported_currencies.last_updated IS NOT NULL
				AND (EXCLUDED.last_updated IS NULL OR supported_currencies.last_updated > EXCLUDED.last_updated)
			THEN supported_currencies.exchange_rate
			ELSE EXCLUDED.exchange_rate END,
		last_updated = CASE
			WHEN supported_currencies.last_updated IS NOT NULL
				AND (EXCLUDED.last_updated IS NULL OR supported_currencies.last_updated > EXCLUDED.last_updated)
			THEN supported_currencies.last_updated
			ELSE EXCLUDED.last_updated END;`

// SaveSettings replaces the flags and the currency list. last_auto_update is left to SaveRates.
func (r *PgxCurrencySettingsRepository) SaveSettings(ctx context.Context, settings domain.CurrencySettings) error {
	return r.WithinTx(ctx, func(tx pgx.Tx) error {
		if _, err := r.load(ctx, tx, true); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			UPDATE currency_settings
			SET default_currency = $2, auto_update_rates = $3, update_frequency = $4, last_updated_at = $5, last_updated_by = $6
			WHERE id = $1;`,
			settingsRowID,
			settings.DefaultCurrency,
			settings.AutoUpdateRates,
			string(settings.UpdateFrequency),
			settings.LastUpdatedAt,
			settings.LastUpdatedBy,
		)
		if err != nil {
			return persistenceError("failed to update currency settings", err)
		}

		codes := make([]string, len(settings.SupportedCurrencies))
		for i, c := range settings.SupportedCurrencies {
			codes[i] = c.Code
		}

		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM supported_currencies WHERE NOT (code = ANY($1));`, codes)
		for i, c := range settings.SupportedCurrencies {
			batch.Queue(upsertSupported, c.Code, i, c.IsActive, c.ExchangeRate, c.LastUpdated)
		}
		return sendBatch(ctx, tx, batch, "failed to save supported currencies")
	})
}

// SaveRates writes one batch of refreshed rates in a single transaction.
func (r *PgxCurrencySettingsRepository) SaveRates(ctx context.Context, updates []domain.SupportedCurrency, lastAutoUpdate *time.Time) error {
	return r.WithinTx(ctx, func(tx pgx.Tx) error {
		if _, err := r.load(ctx, tx, true); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, u := range updates {
			batch.Queue(`UPDATE supported_currencies SET exchange_rate = $2, last_updated = $3 WHERE code = $1;`,
				u.Code, u.ExchangeRate, u.LastUpdated)
		}
		if lastAutoUpdate != nil {
			batch.Queue(`UPDATE currency_settings SET last_auto_update = $2 WHERE id = $1;`, settingsRowID, *lastAutoUpdate)
		}
		if batch.Len() == 0 {
			return nil
		}
		return sendBatch(ctx, tx, batch, "failed to save exchange rates")
	})
}

// sendBatch runs batch on tx. A unique violation becomes ErrDuplicate.
func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, msg string) error {
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: duplicate supported currency", apperrors.ErrDuplicate)
		}
		return persistenceError(msg, err)
	}
	return nil
}
