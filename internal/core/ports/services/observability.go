package services

import (
	"context"
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
)

// EventPublisher emits domain events to downstream consumers.
// Publish failures are reported to the caller but must never undo a posting.
type EventPublisher interface {
	PublishTransactionPosted(ctx context.Context, txn *domain.Transaction) error
	PublishRatesUpdated(ctx context.Context, summary *domain.RateUpdateSummary) error
	Close() error
}

// MetricsRecorder receives counters and timings from the services.
type MetricsRecorder interface {
	ProviderAttempt(provider, outcome string)
	LedgerPosting(outcome string)
	CurrencyUpdate(outcome string)
	RateBatchDuration(d time.Duration)
}
