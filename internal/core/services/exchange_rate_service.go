package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Provider attempt outcomes recorded in metrics.
const (
	outcomeSuccess   = "success"
	outcomeTransport = "transport"
	outcomeMalformed = "malformed"
	outcomeNotFound  = "not_found"
	outcomeError     = "error"
)

// exchangeRateService resolves rates by falling through the registered providers in order.
type exchangeRateService struct {
	BaseService
	providers []portssvc.RateProvider
}

// ExchangeRateOption configures the exchange rate service
type ExchangeRateOption func(*exchangeRateService)

// WithExchangeRateMetrics attaches a metrics recorder
func WithExchangeRateMetrics(m portssvc.MetricsRecorder) ExchangeRateOption {
	return func(s *exchangeRateService) {
		s.Metrics = m
	}
}

// NewExchangeRateService creates a resolver over providers, kept in registration order.
func NewExchangeRateService(providers []portssvc.RateProvider, options ...ExchangeRateOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{providers: append([]portssvc.RateProvider(nil), providers...)}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) Providers() []string {
	keys := make([]string, len(s.providers))
	for i, p := range s.providers {
		keys[i] = p.Key()
	}
	return keys
}

// Resolve tries each candidate exactly once, sequentially, and returns the first success unmodified.
func (s *exchangeRateService) Resolve(ctx context.Context, base, target, preferredKey string) (*domain.ExchangeRate, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	target = strings.ToUpper(strings.TrimSpace(target))
	if !validCurrencyCode(base) || !validCurrencyCode(target) {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters, got %q and %q", apperrors.ErrValidation, base, target)
	}

	if base == target {
		return &domain.ExchangeRate{
			BaseCurrency:   base,
			TargetCurrency: target,
			Rate:           decimal.NewFromInt(1),
			ProviderName:   domain.InternalProvider,
			ObservedAt:     s.CurrentTime(),
		}, nil
	}

	failure := &apperrors.ResolutionError{Base: base, Target: target}
	for _, p := range s.candidates(preferredKey) {
		rate, err := p.FetchRate(ctx, base, target)
		if err == nil {
			s.Recorder().ProviderAttempt(p.Key(), outcomeSuccess)
			s.LogDebug(ctx, "Exchange rate resolved",
				slog.String("provider", p.Key()),
				slog.String("base", base),
				slog.String("target", target),
				slog.String("rate", rate.Rate.String()))
			return rate, nil
		}

		s.Recorder().ProviderAttempt(p.Key(), failureOutcome(err))
		s.LogWarn(ctx, "Exchange rate provider failed",
			slog.String("provider", p.Key()),
			slog.String("base", base),
			slog.String("target", target),
			slog.String("reason", err.Error()))
		failure.Causes = append(failure.Causes, apperrors.ProviderFailure{Provider: p.Name(), Err: err})
	}

	return nil, failure
}

// candidates puts the preferred provider first; unknown keys leave the order unchanged.
func (s *exchangeRateService) candidates(preferredKey string) []portssvc.RateProvider {
	ordered := make([]portssvc.RateProvider, 0, len(s.providers))
	for _, p := range s.providers {
		if preferredKey != "" && p.Key() == preferredKey {
			ordered = append(ordered, p)
		}
	}
	for _, p := range s.providers {
		if preferredKey == "" || p.Key() != preferredKey {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

func failureOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTransport):
		return outcomeTransport
	case errors.Is(err, apperrors.ErrMalformedResponse):
		return outcomeMalformed
	case errors.Is(err, apperrors.ErrRateNotFound):
		return outcomeNotFound
	default:
		return outcomeError
	}
}

func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
