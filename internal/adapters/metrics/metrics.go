package metrics

import (
	"time"

	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerMetrics holds the Prometheus collectors exported by the service.
type LedgerMetrics struct {
	ProviderAttemptsTotal *prometheus.CounterVec
	LedgerPostingsTotal   *prometheus.CounterVec
	CurrencyUpdatesTotal  *prometheus.CounterVec
	RateBatchDurationSecs prometheus.Histogram
}

var _ portssvc.MetricsRecorder = (*LedgerMetrics)(nil)

// NewLedgerMetrics registers the collectors on reg.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	factory := promauto.With(reg)
	return &LedgerMetrics{
		ProviderAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_provider_attempts_total",
				Help: "Exchange rate provider lookups by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		LedgerPostingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_postings_total",
				Help: "Sale postings by outcome",
			},
			[]string{"outcome"},
		),
		CurrencyUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_update_currencies_total",
				Help: "Per-currency results of rate update batches",
			},
			[]string{"outcome"},
		),
		RateBatchDurationSecs: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rate_update_batch_duration_seconds",
				Help:    "Wall time of a rate update batch",
				Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
	}
}

func (m *LedgerMetrics) ProviderAttempt(provider, outcome string) {
	m.ProviderAttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *LedgerMetrics) LedgerPosting(outcome string) {
	m.LedgerPostingsTotal.WithLabelValues(outcome).Inc()
}

func (m *LedgerMetrics) CurrencyUpdate(outcome string) {
	m.CurrencyUpdatesTotal.WithLabelValues(outcome).Inc()
}

func (m *LedgerMetrics) RateBatchDuration(d time.Duration) {
	m.RateBatchDurationSecs.Observe(d.Seconds())
}
