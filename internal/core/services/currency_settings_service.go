package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyDefaults seeds the settings record on first start.
type CurrencyDefaults struct {
	BaseCurrency    string
	DefaultCurrency string
	Supported       []string
	AutoUpdateRates bool
	UpdateFrequency domain.UpdateFrequency
}

// currencySettingsService implements the CurrencySettingsSvcFacade interface
type currencySettingsService struct {
	BaseService
	repo     portsrepo.CurrencySettingsRepositoryFacade
	defaults CurrencyDefaults
}

// NewCurrencySettingsService creates the currency settings service
func NewCurrencySettingsService(repo portsrepo.CurrencySettingsRepositoryFacade, defaults CurrencyDefaults) portssvc.CurrencySettingsSvcFacade {
	return &currencySettingsService{repo: repo, defaults: defaults}
}

var _ portssvc.CurrencySettingsSvcFacade = (*currencySettingsService)(nil)

func (s *currencySettingsService) GetSettings(ctx context.Context) (*domain.CurrencySettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to read currency settings")
		}
		return nil, err
	}
	return settings, nil
}

// Bootstrap stores the configured defaults if no settings exist yet and returns the stored record.
func (s *currencySettingsService) Bootstrap(ctx context.Context) (*domain.CurrencySettings, error) {
	base := strings.ToUpper(s.defaults.BaseCurrency)
	if !validCurrencyCode(base) {
		return nil, fmt.Errorf("%w: invalid base currency %q", apperrors.ErrValidation, s.defaults.BaseCurrency)
	}
	defaultCurrency := strings.ToUpper(s.defaults.DefaultCurrency)
	if defaultCurrency == "" {
		defaultCurrency = base
	}
	frequency := s.defaults.UpdateFrequency
	if !frequency.Valid() {
		frequency = domain.Daily
	}

	now := s.CurrentTime()
	list := []domain.SupportedCurrency{baseEntry(base, now)}
	for _, code := range s.defaults.Supported {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == base || !validCurrencyCode(code) {
			continue
		}
		list = append(list, domain.SupportedCurrency{Code: code, IsActive: true, ExchangeRate: decimal.Zero})
	}
	list = dedupe(list)

	created, err := s.repo.CreateSettingsIfAbsent(ctx, domain.CurrencySettings{
		BaseCurrency:        base,
		DefaultCurrency:     defaultCurrency,
		SupportedCurrencies: list,
		AutoUpdateRates:     s.defaults.AutoUpdateRates,
		UpdateFrequency:     frequency,
		LastUpdatedAt:       now,
		LastUpdatedBy:       domain.SystemUser,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to bootstrap currency settings")
		return nil, fmt.Errorf("failed to bootstrap currency settings: %w", err)
	}
	if created {
		s.LogInfo(ctx, "Currency settings created", slog.String("base_currency", base), slog.Int("supported", len(list)))
	}
	return s.repo.GetSettings(ctx)
}

// UpdateSettings applies the non-nil fields of req. The base currency itself cannot change.
func (s *currencySettingsService) UpdateSettings(ctx context.Context, req dto.UpdateCurrencySettingsRequest, userID string) (*domain.CurrencySettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	now := s.CurrentTime()

	if req.AutoUpdateRates != nil {
		settings.AutoUpdateRates = *req.AutoUpdateRates
	}
	if req.UpdateFrequency != nil {
		freq := domain.UpdateFrequency(strings.ToLower(*req.UpdateFrequency))
		if !freq.Valid() {
			return nil, fmt.Errorf("%w: unknown update frequency %q", apperrors.ErrValidation, *req.UpdateFrequency)
		}
		settings.UpdateFrequency = freq
	}
	if req.SupportedCurrencies != nil {
		list, err := mergeSupported(settings, req.SupportedCurrencies, now)
		if err != nil {
			return nil, err
		}
		settings.SupportedCurrencies = list
	}
	if req.DefaultCurrency != nil {
		settings.DefaultCurrency = strings.ToUpper(*req.DefaultCurrency)
	}
	// the stored default must survive list edits as well as explicit changes
	if code := settings.DefaultCurrency; code != "" && code != settings.BaseCurrency {
		if c, ok := settings.Find(code); !ok || !c.IsActive {
			return nil, fmt.Errorf("%w: default currency %s is not an active supported currency", apperrors.ErrValidation, code)
		}
	}

	if userID == "" {
		userID = domain.SystemUser
	}
	settings.LastUpdatedAt = now
	settings.LastUpdatedBy = userID

	if err := s.repo.SaveSettings(ctx, *settings); err != nil {
		s.LogError(ctx, err, "Failed to save currency settings")
		return nil, fmt.Errorf("failed to save currency settings: %w", err)
	}
	s.LogInfo(ctx, "Currency settings updated", slog.String("user_id", userID))
	return settings, nil
}

// mergeSupported builds the new list from the request, keeping stored rate history
// for codes that stay and forcing the base currency entry to rate 1.
func mergeSupported(settings *domain.CurrencySettings, reqs []dto.SupportedCurrencyRequest, now time.Time) ([]domain.SupportedCurrency, error) {
	list := []domain.SupportedCurrency{baseEntry(settings.BaseCurrency, now)}
	if existing, ok := settings.Find(settings.BaseCurrency); ok {
		list[0].LastUpdated = existing.LastUpdated
	}
	seen := map[string]bool{settings.BaseCurrency: true}

	for _, r := range reqs {
		code := strings.ToUpper(r.Code)
		if !validCurrencyCode(code) {
			return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, r.Code)
		}
		if seen[code] {
			if code == settings.BaseCurrency {
				continue
			}
			return nil, fmt.Errorf("%w: duplicate currency %s", apperrors.ErrValidation, code)
		}
		seen[code] = true

		entry := domain.SupportedCurrency{Code: code, IsActive: r.IsActive, ExchangeRate: decimal.Zero}
		if existing, ok := settings.Find(code); ok {
			entry.ExchangeRate = existing.ExchangeRate
			entry.LastUpdated = existing.LastUpdated
		}
		if r.ExchangeRate != nil {
			if !r.ExchangeRate.IsPositive() {
				return nil, fmt.Errorf("%w: exchange rate for %s must be positive", apperrors.ErrValidation, code)
			}
			manual := now
			entry.ExchangeRate = *r.ExchangeRate
			entry.LastUpdated = &manual
		}
		list = append(list, entry)
	}
	return list, nil
}

func baseEntry(base string, now time.Time) domain.SupportedCurrency {
	return domain.SupportedCurrency{Code: base, IsActive: true, ExchangeRate: decimal.NewFromInt(1), LastUpdated: &now}
}

func dedupe(list []domain.SupportedCurrency) []domain.SupportedCurrency {
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, c := range list {
		if seen[c.Code] {
			continue
		}
		seen[c.Code] = true
		out = append(out, c)
	}
	return out
}
