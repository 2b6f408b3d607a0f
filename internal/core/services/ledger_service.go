package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/utils"
	"github.com/SscSPs/sales_ledger/internal/utils/accounting"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Posting outcomes recorded in metrics.
const (
	postingPosted     = "posted"
	postingInvalid    = "invalid"
	postingImbalanced = "imbalanced"
	postingFailed     = "failed"
)

// ledgerService posts sales facts as balanced double-entry transactions.
type ledgerService struct {
	BaseService
	accounts  portssvc.AccountDirectorySvc
	settings  portssvc.CurrencySettingsReaderSvc
	txnRepo   portsrepo.TransactionRepositoryFacade
	publisher portssvc.EventPublisher
	validate  *validator.Validate
}

// LedgerOption configures the ledger service
type LedgerOption func(*ledgerService)

// WithLedgerMetrics attaches a metrics recorder
func WithLedgerMetrics(m portssvc.MetricsRecorder) LedgerOption {
	return func(s *ledgerService) {
		s.Metrics = m
	}
}

// WithLedgerPublisher publishes a transaction.posted event for every posting
func WithLedgerPublisher(p portssvc.EventPublisher) LedgerOption {
	return func(s *ledgerService) {
		s.publisher = p
	}
}

// NewLedgerService creates the posting engine.
func NewLedgerService(
	accounts portssvc.AccountDirectorySvc,
	settings portssvc.CurrencySettingsReaderSvc,
	txnRepo portsrepo.TransactionRepositoryFacade,
	options ...LedgerOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		accounts: accounts,
		settings: settings,
		txnRepo:  txnRepo,
		validate: validator.New(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostSale validates the fact, builds balanced entries in the transaction currency and persists
// the transaction together with every balance change in one unit of work.
func (s *ledgerService) PostSale(ctx context.Context, fact domain.SaleFact, createdBy string) (*domain.Transaction, error) {
	if createdBy == "" {
		createdBy = domain.SystemUser
	}
	if err := s.validateFact(fact); err != nil {
		s.Recorder().LedgerPosting(postingInvalid)
		return nil, err
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		s.Recorder().LedgerPosting(postingFailed)
		s.LogError(ctx, err, "Failed to read currency settings for posting")
		return nil, fmt.Errorf("failed to read currency settings: %w", err)
	}
	base := settings.BaseCurrency

	if err := checkPrecision(fact, base); err != nil {
		s.Recorder().LedgerPosting(postingInvalid)
		return nil, err
	}

	accounts := make(map[domain.AccountCode]*domain.Account, len(domain.SystemAccounts))
	for _, code := range domain.SystemAccountCodes() {
		account, err := s.accounts.GetOrCreate(ctx, code)
		if err != nil {
			s.Recorder().LedgerPosting(postingFailed)
			s.LogError(ctx, err, "Failed to resolve ledger account", slog.String("account_code", string(code)))
			return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrAccountResolution, code, err)
		}
		accounts[code] = account
	}

	currency := fact.Currency
	if currency == "" {
		currency = settings.DefaultCurrency
	}
	if currency == "" {
		currency = base
	}
	rate := decimal.NewFromInt(1)
	if fact.ExchangeRate != nil {
		rate = *fact.ExchangeRate
	}
	convert := currency != base
	if !convert {
		rate = decimal.NewFromInt(1)
	} else if _, ok := settings.Find(currency); !ok {
		s.LogWarn(ctx, "Posting in a currency that is not in the supported list",
			slog.String("currency", currency),
			slog.String("reference", fact.Reference),
			slog.String("exchange_rate", rate.String()))
	}

	amounts := accounting.ConvertSaleAmounts(fact.Total, fact.TotalTax, rate, currency, convert)

	txn := s.buildTransaction(fact, accounts, amounts, currency, base, rate, createdBy)

	if err := accounting.ValidateBalance(&txn); err != nil {
		s.Recorder().LedgerPosting(postingImbalanced)
		s.LogError(ctx, err, "Refusing to post unbalanced transaction", slog.String("reference", fact.Reference))
		return nil, err
	}

	posted, err := s.txnRepo.PostTransaction(ctx, txn)
	if err != nil {
		s.Recorder().LedgerPosting(postingFailed)
		s.LogError(ctx, err, "Failed to persist ledger transaction", slog.String("reference", fact.Reference))
		if errors.Is(err, apperrors.ErrPersistence) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	s.Recorder().LedgerPosting(postingPosted)
	s.LogInfo(ctx, "Sale posted to ledger",
		slog.String("transaction_number", posted.TransactionNumber),
		slog.String("reference", posted.Reference),
		slog.String("amount", utils.FormatWithCurrencyPrecision(posted.Amount, posted.Currency)),
		slog.String("currency", posted.Currency))

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionPosted(ctx, posted); err != nil {
			s.LogError(ctx, err, "Failed to publish transaction posted event",
				slog.String("transaction_number", posted.TransactionNumber))
		}
	}

	return posted, nil
}

func (s *ledgerService) validateFact(fact domain.SaleFact) error {
	if err := s.validate.Struct(fact); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	switch {
	case fact.Total.IsNegative():
		return fmt.Errorf("%w: total must not be negative", apperrors.ErrValidation)
	case fact.TotalTax.IsNegative():
		return fmt.Errorf("%w: total tax must not be negative", apperrors.ErrValidation)
	case fact.TotalTax.GreaterThan(fact.Total):
		return fmt.Errorf("%w: total tax must not exceed total", apperrors.ErrValidation)
	case !fact.Total.IsPositive():
		return fmt.Errorf("%w: total must be positive", apperrors.ErrValidation)
	case fact.ExchangeRate != nil && !fact.ExchangeRate.IsPositive():
		return fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	return nil
}

// checkPrecision rejects base-currency amounts finer than the base currency's minor unit,
// so the posted amounts always match the snapshot kept in the metadata.
func checkPrecision(fact domain.SaleFact, base string) error {
	switch {
	case accounting.ExceedsPrecision(fact.Total, base):
		return fmt.Errorf("%w: total %s has more decimal places than %s allows", apperrors.ErrValidation, fact.Total, base)
	case accounting.ExceedsPrecision(fact.TotalTax, base):
		return fmt.Errorf("%w: total tax %s has more decimal places than %s allows", apperrors.ErrValidation, fact.TotalTax, base)
	}
	return nil
}

// buildTransaction emits the debit to cash (or receivables) and the credits to sales and, when non-zero, tax.
func (s *ledgerService) buildTransaction(
	fact domain.SaleFact,
	accounts map[domain.AccountCode]*domain.Account,
	amounts accounting.SaleAmounts,
	currency, base string,
	rate decimal.Decimal,
	createdBy string,
) domain.Transaction {
	debitCode := domain.AccountCash
	if fact.Unpaid() {
		debitCode = domain.AccountReceivables
	}

	label := saleLabel(fact)
	entries := []domain.Entry{{
		AccountID:   accounts[debitCode].AccountID,
		AccountCode: debitCode,
		Debit:       amounts.Total,
		Credit:      decimal.Zero,
		Description: label,
	}}
	if amounts.Net.IsPositive() {
		entries = append(entries, domain.Entry{
			AccountID:   accounts[domain.AccountSales].AccountID,
			AccountCode: domain.AccountSales,
			Debit:       decimal.Zero,
			Credit:      amounts.Net,
			Description: "Sales revenue - " + label,
		})
	}
	if amounts.Tax.IsPositive() {
		entries = append(entries, domain.Entry{
			AccountID:   accounts[domain.AccountTaxPayable].AccountID,
			AccountCode: domain.AccountTaxPayable,
			Debit:       decimal.Zero,
			Credit:      amounts.Tax,
			Description: "Sales tax - " + label,
		})
	}

	now := s.CurrentTime()
	date := now
	if fact.InvoiceDate != nil {
		date = fact.InvoiceDate.UTC()
	}
	referenceID := fact.InvoiceNumber
	if referenceID == "" {
		referenceID = fact.Reference
	}
	snapshot := fact

	return domain.Transaction{
		TransactionID: uuid.NewString(),
		Date:          date,
		Description:   label,
		Type:          domain.SaleTransaction,
		Reference:     fact.Reference,
		ReferenceID:   referenceID,
		Amount:        amounts.Total,
		Currency:      currency,
		Entries:       entries,
		Status:        domain.Posted,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		Metadata: domain.TransactionMetadata{
			SalesPerson:   fact.SalesPerson,
			SalesOutlet:   fact.SalesOutlet,
			PaymentMethod: fact.PaymentMethod,
			BaseCurrency:  base,
			ExchangeRate:  rate.String(),
			OriginalSale:  &snapshot,
		},
	}
}

func saleLabel(fact domain.SaleFact) string {
	kind := "Sale"
	if fact.IsInvoice {
		kind = "Invoice"
	}
	ref := fact.InvoiceNumber
	if ref == "" {
		ref = fact.Reference
	}
	parts := []string{kind + " " + ref}
	if name := strings.TrimSpace(fact.CustomerName); name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, " - ")
}

func (s *ledgerService) GetTransaction(ctx context.Context, number string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByNumber(ctx, number)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_number", number))
		}
		return nil, err
	}
	return txn, nil
}

func (s *ledgerService) ListTransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: reference is required", apperrors.ErrValidation)
	}
	txns, err := s.txnRepo.ListTransactionsByReference(ctx, reference)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("reference", reference))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}
