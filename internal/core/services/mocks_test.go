package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code domain.AccountCode) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateAccountIfAbsent(ctx context.Context, account domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, account)
	if fn, ok := args.Get(0).(func(context.Context, domain.Account) *domain.Account); ok {
		return fn(ctx, account), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// MockCurrencySettingsRepository is a mock type for the CurrencySettingsRepositoryFacade interface
type MockCurrencySettingsRepository struct {
	mock.Mock
}

func (m *MockCurrencySettingsRepository) GetSettings(ctx context.Context) (*domain.CurrencySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencySettings), args.Error(1)
}

func (m *MockCurrencySettingsRepository) CreateSettingsIfAbsent(ctx context.Context, defaults domain.CurrencySettings) (bool, error) {
	args := m.Called(ctx, defaults)
	return args.Bool(0), args.Error(1)
}

func (m *MockCurrencySettingsRepository) SaveSettings(ctx context.Context, settings domain.CurrencySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockCurrencySettingsRepository) SaveRates(ctx context.Context, updates []domain.SupportedCurrency, lastAutoUpdate *time.Time) error {
	args := m.Called(ctx, updates, lastAutoUpdate)
	return args.Error(0)
}

// MockRateProvider is a mock type for the RateProvider interface
type MockRateProvider struct {
	mock.Mock
	name string
	key  string
}

func newMockProvider(key, name string) *MockRateProvider {
	return &MockRateProvider{key: key, name: name}
}

func (m *MockRateProvider) Name() string { return m.name }
func (m *MockRateProvider) Key() string  { return m.key }

func (m *MockRateProvider) FetchRate(ctx context.Context, base, target string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, base, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// MockResolver is a mock type for the ExchangeRateSvcFacade interface
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, base, target, preferredKey string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, base, target, preferredKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockResolver) Providers() []string {
	return nil
}

// MockPublisher is a mock type for the EventPublisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTransactionPosted(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockPublisher) PublishRatesUpdated(ctx context.Context, summary *domain.RateUpdateSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}

// recordingMetrics counts calls per label.
type recordingMetrics struct {
	mu        sync.Mutex
	attempts  map[string]int
	postings  map[string]int
	updates   map[string]int
	durations int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{attempts: map[string]int{}, postings: map[string]int{}, updates: map[string]int{}}
}

func (r *recordingMetrics) ProviderAttempt(provider, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[provider+"/"+outcome]++
}

func (r *recordingMetrics) LedgerPosting(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postings[outcome]++
}

func (r *recordingMetrics) CurrencyUpdate(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates[outcome]++
}

func (r *recordingMetrics) RateBatchDuration(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}
