package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBatchConcurrency = 4
	defaultBatchTimeout     = 2 * time.Minute
	saveRatesTimeout        = 10 * time.Second
	rateBatchFlightKey      = "rate-batch"
)

// Skip reasons reported in RateUpdateSummary.
const (
	SkipSettingsMissing  = "currency settings are not configured"
	SkipAutoUpdateOff    = "automatic rate updates are disabled"
	SkipNotDue           = "rates are not due for an update"
	SkipNoTargets        = "no active non-base currencies to update"
	skipSettingsReadFail = "currency settings could not be read"
)

// RateUpdaterConfig bounds a rate update batch.
type RateUpdaterConfig struct {
	Concurrency       int
	BatchTimeout      time.Duration
	PreferredProvider string
}

// rateUpdateService refreshes supported currency rates in batches.
type rateUpdateService struct {
	BaseService
	settingsRepo portsrepo.CurrencySettingsRepositoryFacade
	resolver     portssvc.ExchangeRateSvcFacade
	publisher    portssvc.EventPublisher
	cfg          RateUpdaterConfig

	flight singleflight.Group

	mu    sync.RWMutex
	state domain.SchedulerState
	last  *domain.RateUpdateSummary
}

// RateUpdaterOption configures the rate update service
type RateUpdaterOption func(*rateUpdateService)

// WithRateUpdaterMetrics attaches a metrics recorder
func WithRateUpdaterMetrics(m portssvc.MetricsRecorder) RateUpdaterOption {
	return func(s *rateUpdateService) {
		s.Metrics = m
	}
}

// WithRateUpdaterPublisher publishes a rates.updated event after successful batches
func WithRateUpdaterPublisher(p portssvc.EventPublisher) RateUpdaterOption {
	return func(s *rateUpdateService) {
		s.publisher = p
	}
}

// WithRateUpdaterClock overrides the clock, for tests
func WithRateUpdaterClock(now func() time.Time) RateUpdaterOption {
	return func(s *rateUpdateService) {
		s.Now = now
	}
}

// RateUpdater is the concrete updater; the scheduler observes its state.
type RateUpdater interface {
	portssvc.RateUpdaterSvc
	State() domain.SchedulerState
}

// NewRateUpdateService creates the rate updater.
func NewRateUpdateService(
	settingsRepo portsrepo.CurrencySettingsRepositoryFacade,
	resolver portssvc.ExchangeRateSvcFacade,
	cfg RateUpdaterConfig,
	options ...RateUpdaterOption,
) RateUpdater {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultBatchConcurrency
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = defaultBatchTimeout
	}
	svc := &rateUpdateService{
		settingsRepo: settingsRepo,
		resolver:     resolver,
		cfg:          cfg,
		state:        domain.StateIdle,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RateUpdaterSvc = (*rateUpdateService)(nil)

// State returns the current phase.
func (s *rateUpdateService) State() domain.SchedulerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *rateUpdateService) setState(state domain.SchedulerState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// LastSummary returns the summary of the most recent run.
func (s *rateUpdateService) LastSummary() *domain.RateUpdateSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// CheckAndUpdate runs the Checking phase and, when due, the Updating phase.
func (s *rateUpdateService) CheckAndUpdate(ctx context.Context) (*domain.RateUpdateSummary, error) {
	s.setState(domain.StateChecking)

	settings, skip := s.loadSettings(ctx)
	if skip != nil {
		return s.finishSkipped(ctx, skip), nil
	}
	if !settings.AutoUpdateRates {
		return s.finishSkipped(ctx, s.skipped(settings.BaseCurrency, SkipAutoUpdateOff)), nil
	}
	if !settings.IsDue(s.CurrentTime()) {
		return s.finishSkipped(ctx, s.skipped(settings.BaseCurrency, SkipNotDue)), nil
	}

	return s.runExclusive(ctx)
}

// ForceUpdate runs the Updating phase without the due check.
func (s *rateUpdateService) ForceUpdate(ctx context.Context) (*domain.RateUpdateSummary, error) {
	return s.runExclusive(ctx)
}

// runExclusive merges overlapping batches so only one writes the settings at a time.
// The batch detaches from the caller that started it and is bounded by BatchTimeout alone;
// a caller whose context ends stops waiting without cancelling the batch for the others.
func (s *rateUpdateService) runExclusive(ctx context.Context) (*domain.RateUpdateSummary, error) {
	batchCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(rateBatchFlightKey, func() (any, error) {
		settings, skip := s.loadSettings(batchCtx)
		if skip != nil {
			return s.finishSkipped(batchCtx, skip), nil
		}
		return s.runBatch(batchCtx, settings), nil
	})
	select {
	case res := <-ch:
		return res.Val.(*domain.RateUpdateSummary), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *rateUpdateService) loadSettings(ctx context.Context) (*domain.CurrencySettings, *domain.RateUpdateSummary) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err == nil {
		return settings, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, s.skipped("", SkipSettingsMissing)
	}
	s.LogError(ctx, err, "Failed to read currency settings for rate update")
	summary := s.skipped("", skipSettingsReadFail)
	summary.Error = err.Error()
	return nil, summary
}

func (s *rateUpdateService) skipped(base, reason string) *domain.RateUpdateSummary {
	now := s.CurrentTime()
	return &domain.RateUpdateSummary{
		Skipped:      true,
		SkipReason:   reason,
		BaseCurrency: base,
		Outcomes:     []domain.CurrencyOutcome{},
		StartedAt:    now,
		FinishedAt:   now,
	}
}

func (s *rateUpdateService) finishSkipped(ctx context.Context, summary *domain.RateUpdateSummary) *domain.RateUpdateSummary {
	s.setState(domain.StateSkipped)
	s.LogInfo(ctx, "Rate update skipped", slog.String("reason", summary.SkipReason))
	s.record(summary)
	s.setState(domain.StateIdle)
	return summary
}

func (s *rateUpdateService) record(summary *domain.RateUpdateSummary) {
	s.mu.Lock()
	s.last = summary
	s.mu.Unlock()
}

// runBatch resolves every target concurrently under the batch deadline and saves the results once.
func (s *rateUpdateService) runBatch(ctx context.Context, settings *domain.CurrencySettings) *domain.RateUpdateSummary {
	s.setState(domain.StateUpdating)
	defer s.setState(domain.StateIdle)

	started := s.CurrentTime()
	base := settings.BaseCurrency
	targets := settings.RefreshTargets()
	if len(targets) == 0 {
		summary := s.skipped(base, SkipNoTargets)
		s.LogInfo(ctx, "Rate update skipped", slog.String("reason", summary.SkipReason))
		s.record(summary)
		return summary
	}

	batchCtx, cancel := context.WithTimeout(ctx, s.cfg.BatchTimeout)
	defer cancel()

	outcomes := make([]domain.CurrencyOutcome, len(targets))
	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(s.cfg.Concurrency)
	for i, code := range targets {
		i, code := i, code
		g.Go(func() error {
			rate, err := s.resolver.Resolve(gctx, base, code, s.cfg.PreferredProvider)
			if err != nil {
				outcomes[i] = domain.CurrencyOutcome{Currency: code, Success: false, Reason: err.Error()}
				return nil
			}
			outcomes[i] = domain.CurrencyOutcome{Currency: code, Success: true, Rate: rate.Rate, Provider: rate.ProviderName}
			return nil
		})
	}
	_ = g.Wait()

	finished := s.CurrentTime()
	summary := &domain.RateUpdateSummary{
		BaseCurrency: base,
		Outcomes:     outcomes,
		StartedAt:    started,
		FinishedAt:   finished,
	}

	updates := make([]domain.SupportedCurrency, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Success {
			continue
		}
		current, _ := settings.Find(o.Currency)
		updated := finished
		updates = append(updates, domain.SupportedCurrency{
			Code:         o.Currency,
			IsActive:     current.IsActive,
			ExchangeRate: o.Rate,
			LastUpdated:  &updated,
		})
	}

	if len(updates) > 0 {
		lastAutoUpdate := finished
		// the deadline above only bounds fetching; the save must still run
		saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), saveRatesTimeout)
		err := s.settingsRepo.SaveRates(saveCtx, updates, &lastAutoUpdate)
		cancelSave()
		if err != nil {
			s.LogError(ctx, err, "Failed to persist refreshed exchange rates", slog.Int("currencies", len(updates)))
			summary.Error = fmt.Sprintf("%s: %v", apperrors.ErrPersistence, err)
			for i := range summary.Outcomes {
				if summary.Outcomes[i].Success {
					summary.Outcomes[i].Success = false
					summary.Outcomes[i].Reason = "rate fetched but not saved"
				}
			}
		}
	}

	for _, o := range summary.Outcomes {
		if o.Success {
			summary.UpdatedCount++
			s.Recorder().CurrencyUpdate("updated")
			continue
		}
		summary.FailedCount++
		s.Recorder().CurrencyUpdate("failed")
		s.LogWarn(ctx, "Currency rate not updated",
			slog.String("currency", o.Currency),
			slog.String("base", base),
			slog.String("reason", o.Reason))
	}
	s.Recorder().RateBatchDuration(finished.Sub(started))

	s.LogInfo(ctx, "Rate update finished",
		slog.String("base", base),
		slog.Int("updated_count", summary.UpdatedCount),
		slog.Int("failed_count", summary.FailedCount),
		slog.Duration("duration", finished.Sub(started)))

	if summary.UpdatedCount > 0 && s.publisher != nil {
		if err := s.publisher.PublishRatesUpdated(ctx, summary); err != nil {
			s.LogError(ctx, err, "Failed to publish rates updated event")
		}
	}

	s.record(summary)
	return summary
}
