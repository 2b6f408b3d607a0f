// Package memory holds in-process implementations of the repository ports.
// They back DB-less runs and tests, and enforce the same uniqueness and atomicity as the Postgres store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
)

// Store is a single lock-protected ledger shared by the account and transaction repositories,
// so that posting a transaction and moving balances happen atomically.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account // by ID
	accountCodes map[domain.AccountCode]string
	transactions []domain.Transaction
	byNumber     map[string]int
	seq          int64
	settings     *domain.CurrencySettings
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*domain.Account),
		accountCodes: make(map[domain.AccountCode]string),
		byNumber:     make(map[string]int),
	}
}

// Repositories exposes the store through the repository ports.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:          &AccountRepository{store: s},
		TransactionRepo:      &TransactionRepository{store: s},
		CurrencySettingsRepo: &CurrencySettingsRepository{store: s},
	}
}

// AccountRepository implements portsrepo.AccountRepositoryFacade
type AccountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) FindAccountByCode(ctx context.Context, code domain.AccountCode) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.accountCodes[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	acc := *r.store.accounts[id]
	return &acc, nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Account, 0, len(r.store.accounts))
	for _, acc := range r.store.accounts {
		out = append(out, *acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *AccountRepository) CreateAccountIfAbsent(ctx context.Context, account domain.Account) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := r.store.accountCodes[account.Code]; ok {
		existing := *r.store.accounts[id]
		return &existing, nil
	}
	stored := account
	r.store.accounts[account.AccountID] = &stored
	r.store.accountCodes[account.Code] = account.AccountID
	out := stored
	return &out, nil
}

// TransactionRepository implements portsrepo.TransactionRepositoryFacade
type TransactionRepository struct {
	store *Store
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)

// PostTransaction allocates the number, stores the transaction and applies balances under one lock.
func (r *TransactionRepository) PostTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deltas := txn.BalanceDeltas()
	for id := range deltas {
		if _, ok := r.store.accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s does not exist", apperrors.ErrPersistence, id)
		}
	}

	r.store.seq++
	txn.TransactionNumber = domain.FormatTransactionNumber(r.store.seq)
	txn.Entries = append([]domain.Entry(nil), txn.Entries...)

	now := txn.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	for id, delta := range deltas {
		acc := r.store.accounts[id]
		acc.Balance = acc.Balance.Add(delta)
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = txn.CreatedBy
	}

	r.store.byNumber[txn.TransactionNumber] = len(r.store.transactions)
	r.store.transactions = append(r.store.transactions, txn)
	out := txn
	return &out, nil
}

func (r *TransactionRepository) FindTransactionByNumber(ctx context.Context, number string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	idx, ok := r.store.byNumber[number]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := r.store.transactions[idx]
	return &out, nil
}

func (r *TransactionRepository) ListTransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []domain.Transaction{}
	for _, t := range r.store.transactions {
		if t.Reference == reference {
			out = append(out, t)
		}
	}
	return out, nil
}

// CurrencySettingsRepository implements portsrepo.CurrencySettingsRepositoryFacade
type CurrencySettingsRepository struct {
	store *Store
}

var _ portsrepo.CurrencySettingsRepositoryFacade = (*CurrencySettingsRepository)(nil)

func (r *CurrencySettingsRepository) GetSettings(ctx context.Context) (*domain.CurrencySettings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if r.store.settings == nil {
		return nil, apperrors.ErrNotFound
	}
	return cloneSettings(r.store.settings), nil
}

func (r *CurrencySettingsRepository) CreateSettingsIfAbsent(ctx context.Context, defaults domain.CurrencySettings) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.settings != nil {
		return false, nil
	}
	if err := checkUnique(defaults.SupportedCurrencies); err != nil {
		return false, err
	}
	r.store.settings = cloneSettings(&defaults)
	return true, nil
}

func (r *CurrencySettingsRepository) SaveSettings(ctx context.Context, settings domain.CurrencySettings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.settings == nil {
		return apperrors.ErrNotFound
	}
	if err := checkUnique(settings.SupportedCurrencies); err != nil {
		return err
	}
	updated := cloneSettings(&settings)
	// lastAutoUpdate is only advanced by SaveRates
	updated.LastAutoUpdate = copyTime(r.store.settings.LastAutoUpdate)
	for i, c := range updated.SupportedCurrencies {
		if stored, ok := r.store.settings.Find(c.Code); ok && newerRate(stored, c) {
			updated.SupportedCurrencies[i].ExchangeRate = stored.ExchangeRate
			updated.SupportedCurrencies[i].LastUpdated = copyTime(stored.LastUpdated)
		}
	}
	r.store.settings = updated
	return nil
}

// newerRate reports whether the stored rate was refreshed after the incoming one was read.
func newerRate(stored, incoming domain.SupportedCurrency) bool {
	if stored.LastUpdated == nil {
		return false
	}
	return incoming.LastUpdated == nil || stored.LastUpdated.After(*incoming.LastUpdated)
}

func (r *CurrencySettingsRepository) SaveRates(ctx context.Context, updates []domain.SupportedCurrency, lastAutoUpdate *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.settings == nil {
		return apperrors.ErrNotFound
	}
	next := cloneSettings(r.store.settings)
	for _, u := range updates {
		for i := range next.SupportedCurrencies {
			if next.SupportedCurrencies[i].Code == u.Code {
				next.SupportedCurrencies[i].ExchangeRate = u.ExchangeRate
				next.SupportedCurrencies[i].LastUpdated = copyTime(u.LastUpdated)
			}
		}
	}
	if lastAutoUpdate != nil {
		next.LastAutoUpdate = copyTime(lastAutoUpdate)
	}
	r.store.settings = next
	return nil
}

func checkUnique(list []domain.SupportedCurrency) error {
	seen := make(map[string]bool, len(list))
	for _, c := range list {
		if seen[c.Code] {
			return fmt.Errorf("%w: supported currency %s", apperrors.ErrDuplicate, c.Code)
		}
		seen[c.Code] = true
	}
	return nil
}

func cloneSettings(s *domain.CurrencySettings) *domain.CurrencySettings {
	out := *s
	out.SupportedCurrencies = make([]domain.SupportedCurrency, len(s.SupportedCurrencies))
	for i, c := range s.SupportedCurrencies {
		c.LastUpdated = copyTime(c.LastUpdated)
		out.SupportedCurrencies[i] = c
	}
	out.LastAutoUpdate = copyTime(s.LastAutoUpdate)
	return &out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
