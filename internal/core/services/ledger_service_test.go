package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/core/services"
	"github.com/SscSPs/sales_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	repos     portsrepo.RepositoryProvider
	accounts  portssvc.AccountSvcFacade
	publisher *MockPublisher
	metrics   *recordingMetrics
	service   portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	ctx := context.Background()
	suite.repos = memory.NewStore().Repositories()
	suite.accounts = services.NewAccountService(suite.repos.AccountRepo)
	settings := services.NewCurrencySettingsService(suite.repos.CurrencySettingsRepo, services.CurrencyDefaults{
		BaseCurrency:    "USD",
		Supported:       []string{"ZWL"},
		AutoUpdateRates: true,
		UpdateFrequency: domain.Daily,
	})
	_, err := settings.Bootstrap(ctx)
	suite.Require().NoError(err)

	suite.publisher = new(MockPublisher)
	suite.publisher.On("PublishTransactionPosted", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil).Maybe()
	suite.metrics = newRecordingMetrics()
	suite.service = services.NewLedgerService(suite.accounts, settings, suite.repos.TransactionRepo,
		services.WithLedgerMetrics(suite.metrics),
		services.WithLedgerPublisher(suite.publisher),
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func (suite *LedgerServiceTestSuite) balance(code domain.AccountCode) decimal.Decimal {
	acc, err := suite.accounts.GetAccountByCode(context.Background(), code)
	suite.Require().NoError(err)
	return acc.Balance
}

func (suite *LedgerServiceTestSuite) entryFor(txn *domain.Transaction, code domain.AccountCode) (domain.Entry, bool) {
	for _, e := range txn.Entries {
		if e.AccountCode == code {
			return e, true
		}
	}
	return domain.Entry{}, false
}

func (suite *LedgerServiceTestSuite) TestPostSale_ConvertsIntoTransactionCurrency() {
	fact := domain.SaleFact{
		Reference:    "sale-1",
		Total:        dec("100"),
		TotalTax:     dec("15"),
		Currency:     "ZWL",
		ExchangeRate: decPtr("13500"),
		CustomerName: "Tendai",
		IsPaid:       true,
	}

	txn, err := suite.service.PostSale(context.Background(), fact, "cashier-7")

	suite.Require().NoError(err)
	suite.Equal("TXN000001", txn.TransactionNumber)
	suite.Equal("ZWL", txn.Currency)
	suite.True(txn.Amount.Equal(dec("1350000")))
	suite.Require().Len(txn.Entries, 3)

	cash, _ := suite.entryFor(txn, domain.AccountCash)
	sales, _ := suite.entryFor(txn, domain.AccountSales)
	tax, _ := suite.entryFor(txn, domain.AccountTaxPayable)
	suite.True(cash.Debit.Equal(dec("1350000")))
	suite.True(sales.Credit.Equal(dec("1147500")))
	suite.True(tax.Credit.Equal(dec("202500")))

	suite.Equal("USD", txn.Metadata.BaseCurrency)
	suite.Equal("13500", txn.Metadata.ExchangeRate)
	suite.Require().NotNil(txn.Metadata.OriginalSale)
	suite.True(txn.Metadata.OriginalSale.Total.Equal(dec("100")))
	suite.Equal("cashier-7", txn.CreatedBy)
	suite.Equal("Sale sale-1 - Tendai", txn.Description)

	suite.True(suite.balance(domain.AccountCash).Equal(dec("1350000")))
	suite.True(suite.balance(domain.AccountSales).Equal(dec("-1147500")))
	suite.True(suite.balance(domain.AccountTaxPayable).Equal(dec("-202500")))
	suite.Equal(1, suite.metrics.postings["posted"])
	suite.publisher.AssertNumberOfCalls(suite.T(), "PublishTransactionPosted", 1)
}

func (suite *LedgerServiceTestSuite) TestPostSale_BaseCurrencyIgnoresRate() {
	txn, err := suite.service.PostSale(context.Background(), domain.SaleFact{
		Reference:    "sale-2",
		Total:        dec("50"),
		TotalTax:     dec("5"),
		Currency:     "USD",
		ExchangeRate: decPtr("7"),
	}, "")

	suite.Require().NoError(err)
	suite.True(txn.Amount.Equal(dec("50")))
	suite.Equal("1", txn.Metadata.ExchangeRate)
	suite.Equal(domain.SystemUser, txn.CreatedBy)
}

func (suite *LedgerServiceTestSuite) TestPostSale_ZeroTaxEmitsTwoEntries() {
	txn, err := suite.service.PostSale(context.Background(), domain.SaleFact{
		Reference: "sale-3",
		Total:     dec("20"),
		TotalTax:  decimal.Zero,
	}, "")

	suite.Require().NoError(err)
	suite.Len(txn.Entries, 2)
	_, hasTax := suite.entryFor(txn, domain.AccountTaxPayable)
	suite.False(hasTax)
	suite.True(suite.balance(domain.AccountTaxPayable).IsZero())
}

func (suite *LedgerServiceTestSuite) TestPostSale_UnpaidInvoiceDebitsReceivables() {
	invoiceDate := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	txn, err := suite.service.PostSale(context.Background(), domain.SaleFact{
		Reference:     "order-9",
		InvoiceNumber: "INV-0042",
		InvoiceDate:   &invoiceDate,
		Total:         dec("115"),
		TotalTax:      dec("15"),
		IsInvoice:     true,
		IsPaid:        false,
	}, "")

	suite.Require().NoError(err)
	ar, ok := suite.entryFor(txn, domain.AccountReceivables)
	suite.Require().True(ok)
	suite.True(ar.Debit.Equal(dec("115")))
	_, hasCash := suite.entryFor(txn, domain.AccountCash)
	suite.False(hasCash)
	suite.Equal("INV-0042", txn.ReferenceID)
	suite.Equal(invoiceDate, txn.Date)
	suite.Equal("Invoice INV-0042", txn.Description)
	suite.True(suite.balance(domain.AccountReceivables).Equal(dec("115")))
}

func (suite *LedgerServiceTestSuite) TestPostSale_RejectsInvalidFacts() {
	tests := []struct {
		name string
		fact domain.SaleFact
	}{
		{name: "missing reference", fact: domain.SaleFact{Total: dec("10")}},
		{name: "negative total", fact: domain.SaleFact{Reference: "r", Total: dec("-1")}},
		{name: "negative tax", fact: domain.SaleFact{Reference: "r", Total: dec("10"), TotalTax: dec("-1")}},
		{name: "tax above total", fact: domain.SaleFact{Reference: "r", Total: dec("10"), TotalTax: dec("11")}},
		{name: "zero total", fact: domain.SaleFact{Reference: "r", Total: decimal.Zero}},
		{name: "zero rate", fact: domain.SaleFact{Reference: "r", Total: dec("10"), Currency: "ZWL", ExchangeRate: decPtr("0")}},
		{name: "lowercase currency", fact: domain.SaleFact{Reference: "r", Total: dec("10"), Currency: "zwl"}},
		{name: "total below cent", fact: domain.SaleFact{Reference: "r", Total: dec("100.005")}},
		{name: "tax below cent", fact: domain.SaleFact{Reference: "r", Total: dec("100"), TotalTax: dec("15.001"), Currency: "ZWL", ExchangeRate: decPtr("13500")}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			txn, err := suite.service.PostSale(context.Background(), tt.fact, "")
			suite.Nil(txn)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	accounts, err := suite.accounts.ListAccounts(context.Background())
	suite.Require().NoError(err)
	suite.Empty(accounts)
	suite.Equal(len(tests), suite.metrics.postings["invalid"])
}

func (suite *LedgerServiceTestSuite) TestPostSale_BalancesAccumulate() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := suite.service.PostSale(ctx, domain.SaleFact{Reference: "repeat", Total: dec("11.50"), TotalTax: dec("1.50")}, "")
		suite.Require().NoError(err)
	}

	suite.True(suite.balance(domain.AccountCash).Equal(dec("34.5")))
	suite.True(suite.balance(domain.AccountSales).Equal(dec("-30")))
	suite.True(suite.balance(domain.AccountTaxPayable).Equal(dec("-4.5")))

	txns, err := suite.service.ListTransactionsByReference(ctx, "repeat")
	suite.Require().NoError(err)
	suite.Len(txns, 3)
}

func (suite *LedgerServiceTestSuite) TestPostSale_ConcurrentPostingsGetDistinctNumbers() {
	const n = 25
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			txn, err := suite.service.PostSale(context.Background(), domain.SaleFact{
				Reference: fmt.Sprintf("c-%d", i),
				Total:     dec("2"),
				TotalTax:  dec("0.2"),
			}, "")
			if err != nil {
				errs <- err
				return
			}
			numbers <- txn.TransactionNumber
		}(i)
	}
	wg.Wait()
	close(numbers)
	close(errs)

	suite.Empty(errs)
	seen := map[string]bool{}
	for num := range numbers {
		suite.False(seen[num], "duplicate transaction number %s", num)
		seen[num] = true
	}
	suite.Len(seen, n)
	suite.True(suite.balance(domain.AccountCash).Equal(dec("50")))

	accounts, err := suite.accounts.ListAccounts(context.Background())
	suite.Require().NoError(err)
	suite.Len(accounts, 4)
}

func (suite *LedgerServiceTestSuite) TestPostSale_PublishFailureDoesNotFailPosting() {
	publisher := new(MockPublisher)
	publisher.On("PublishTransactionPosted", mock.Anything, mock.Anything).Return(fmt.Errorf("broker down")).Once()
	settings := services.NewCurrencySettingsService(suite.repos.CurrencySettingsRepo, services.CurrencyDefaults{BaseCurrency: "USD"})
	svc := services.NewLedgerService(suite.accounts, settings, suite.repos.TransactionRepo, services.WithLedgerPublisher(publisher))

	txn, err := svc.PostSale(context.Background(), domain.SaleFact{Reference: "p", Total: dec("1")}, "")

	suite.Require().NoError(err)
	suite.NotEmpty(txn.TransactionNumber)
	publisher.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestGetTransaction() {
	ctx := context.Background()
	posted, err := suite.service.PostSale(ctx, domain.SaleFact{Reference: "g", Total: dec("3")}, "")
	suite.Require().NoError(err)

	found, err := suite.service.GetTransaction(ctx, posted.TransactionNumber)
	suite.Require().NoError(err)
	suite.Equal(posted.TransactionID, found.TransactionID)

	_, err = suite.service.GetTransaction(ctx, "TXN999999")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestListTransactionsByReference_RequiresReference() {
	_, err := suite.service.ListTransactionsByReference(context.Background(), " ")
	suite.ErrorIs(err, apperrors.ErrValidation)

	txns, err := suite.service.ListTransactionsByReference(context.Background(), "nothing")
	suite.Require().NoError(err)
	suite.NotNil(txns)
	suite.Empty(txns)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
