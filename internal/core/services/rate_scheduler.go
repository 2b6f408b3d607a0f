package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/SscSPs/sales_ledger/internal/middleware"
)

const (
	DefaultStartupDelay  = 10 * time.Second
	DefaultCheckInterval = time.Hour
)

// RateScheduler periodically asks the updater to check and refresh rates.
// It is owned by the process lifecycle: Start once, Stop on shutdown.
type RateScheduler struct {
	updater       RateUpdater
	startupDelay  time.Duration
	checkInterval time.Duration
	logger        *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRateScheduler creates a scheduler. Non-positive durations fall back to the defaults.
func NewRateScheduler(updater RateUpdater, startupDelay, checkInterval time.Duration, logger *slog.Logger) *RateScheduler {
	if startupDelay <= 0 {
		startupDelay = DefaultStartupDelay
	}
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RateScheduler{
		updater:       updater,
		startupDelay:  startupDelay,
		checkInterval: checkInterval,
		logger:        logger.With(slog.String("component", "rate_scheduler")),
	}
}

// Start launches the background loop. Calling Start on a running scheduler is a no-op.
func (s *RateScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(middleware.WithLogger(ctx, s.logger))
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(loopCtx, s.done)

	s.logger.Info("Rate scheduler started",
		slog.Duration("startup_delay", s.startupDelay),
		slog.Duration("check_interval", s.checkInterval))
}

// Stop cancels the loop and waits for an in-flight check to return.
func (s *RateScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("Rate scheduler stopped")
}

// State reports the updater's current phase.
func (s *RateScheduler) State() domain.SchedulerState {
	return s.updater.State()
}

func (s *RateScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	startup := time.NewTimer(s.startupDelay)
	defer startup.Stop()
	select {
	case <-ctx.Done():
		return
	case <-startup.C:
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *RateScheduler) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Rate check panicked", slog.Any("panic", r))
		}
	}()
	if _, err := s.updater.CheckAndUpdate(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Info("Rate check abandoned on shutdown")
			return
		}
		s.logger.Error("Rate check failed", slog.String("error", err.Error()))
	}
}
