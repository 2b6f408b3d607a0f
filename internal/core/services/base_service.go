package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Metrics portssvc.MetricsRecorder
	Now     func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a recoverable failure
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// CurrentTime returns the service clock, defaulting to time.Now.
func (s *BaseService) CurrentTime() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Recorder returns the configured metrics recorder or a no-op one.
func (s *BaseService) Recorder() portssvc.MetricsRecorder {
	if s.Metrics == nil {
		return nopMetrics{}
	}
	return s.Metrics
}

type nopMetrics struct{}

func (nopMetrics) ProviderAttempt(string, string) {}
func (nopMetrics) LedgerPosting(string) {}
func (nopMetrics) CurrencyUpdate(string) {}
func (nopMetrics) RateBatchDuration(time.Duration) {}
