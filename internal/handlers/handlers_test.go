package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/dto"
	"github.com/SscSPs/sales_ledger/internal/handlers"
	"github.com/SscSPs/sales_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) PostSale(ctx context.Context, fact domain.SaleFact, createdBy string) (*domain.Transaction, error) {
	args := m.Called(ctx, fact, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) GetTransaction(ctx context.Context, number string) (*domain.Transaction, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ListTransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code domain.AccountCode) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetOrCreate(ctx context.Context, code domain.AccountCode) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) Bootstrap(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock CurrencySettingsService ---
type MockCurrencySettingsService struct {
	mock.Mock
}

func (m *MockCurrencySettingsService) GetSettings(ctx context.Context) (*domain.CurrencySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencySettings), args.Error(1)
}
func (m *MockCurrencySettingsService) UpdateSettings(ctx context.Context, req dto.UpdateCurrencySettingsRequest, userID string) (*domain.CurrencySettings, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencySettings), args.Error(1)
}
func (m *MockCurrencySettingsService) Bootstrap(ctx context.Context) (*domain.CurrencySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencySettings), args.Error(1)
}

var _ portssvc.CurrencySettingsSvcFacade = (*MockCurrencySettingsService)(nil)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) Resolve(ctx context.Context, base, target, preferredKey string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, base, target, preferredKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}
func (m *MockExchangeRateService) Providers() []string {
	return m.Called().Get(0).([]string)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock RateUpdater ---
type MockRateUpdater struct {
	mock.Mock
}

func (m *MockRateUpdater) CheckAndUpdate(ctx context.Context) (*domain.RateUpdateSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateUpdateSummary), args.Error(1)
}
func (m *MockRateUpdater) ForceUpdate(ctx context.Context) (*domain.RateUpdateSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateUpdateSummary), args.Error(1)
}
func (m *MockRateUpdater) LastSummary() *domain.RateUpdateSummary {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.RateUpdateSummary)
}

var _ portssvc.RateUpdaterSvc = (*MockRateUpdater)(nil)

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router        *gin.Engine
	ledger        *MockLedgerService
	accounts      *MockAccountService
	settings      *MockCurrencySettingsService
	exchangeRates *MockExchangeRateService
	updater       *MockRateUpdater
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.ledger = new(MockLedgerService)
	suite.accounts = new(MockAccountService)
	suite.settings = new(MockCurrencySettingsService)
	suite.exchangeRates = new(MockExchangeRateService)
	suite.updater = new(MockRateUpdater)

	adminLimiter, err := middleware.NewMemoryLimiter("1-M")
	suite.Require().NoError(err)

	handlers.RegisterRoutes(suite.router, nil, &portssvc.ServiceContainer{
		Account:          suite.accounts,
		CurrencySettings: suite.settings,
		ExchangeRate:     suite.exchangeRates,
		RateUpdater:      suite.updater,
		Ledger:           suite.ledger,
	}, handlers.RouteOptions{AdminLimiter: adminLimiter})
}

func (suite *HandlersTestSuite) do(method, url string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			suite.Require().NoError(err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleTransaction(reference string) *domain.Transaction {
	return &domain.Transaction{
		TransactionID:     uuid.NewString(),
		TransactionNumber: "TXN000001",
		Date:              time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
		Description:       "Sale " + reference,
		Type:              domain.SaleTransaction,
		Reference:         reference,
		ReferenceID:       reference,
		Amount:            decimal.NewFromInt(115),
		Currency:          "USD",
		Status:            domain.Posted,
		CreatedBy:         "cashier-7",
		Entries: []domain.Entry{
			{AccountID: "a1", AccountCode: domain.AccountCash, Debit: decimal.NewFromInt(115), Credit: decimal.Zero},
			{AccountID: "a2", AccountCode: domain.AccountSales, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
			{AccountID: "a3", AccountCode: domain.AccountTaxPayable, Debit: decimal.Zero, Credit: decimal.NewFromInt(15)},
		},
	}
}

// --- Test Cases ---

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestPostSale_Created() {
	suite.ledger.On("PostSale", mock.Anything,
		mock.MatchedBy(func(f domain.SaleFact) bool {
			return f.Reference == "S-1" && f.Total.Equal(decimal.NewFromInt(115)) && f.Currency == "USD"
		}),
		"cashier-7",
	).Return(sampleTransaction("S-1"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/sales",
		`{"reference":"S-1","total":115,"totalTax":15,"currency":"USD"}`,
		map[string]string{middleware.ActorHeader: "cashier-7"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("TXN000001", resp.TransactionNumber)
	suite.Len(resp.Entries, 3)
	suite.True(resp.Amount.Equal(decimal.NewFromInt(115)))
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestPostSale_DefaultsActorToSystem() {
	suite.ledger.On("PostSale", mock.Anything, mock.Anything, domain.SystemUser).
		Return(sampleTransaction("S-2"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/sales", `{"reference":"S-2","total":10}`, nil)

	suite.Equal(http.StatusCreated, w.Code)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestPostSale_BadBody() {
	cases := map[string]string{
		"malformed":         `{"reference":`,
		"missing reference": `{"total":10}`,
		"lowercase code":    `{"reference":"S-3","total":10,"currency":"usd"}`,
	}
	for name, body := range cases {
		w := suite.do(http.MethodPost, "/api/v1/sales", body, nil)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}
	suite.ledger.AssertNotCalled(suite.T(), "PostSale", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestPostSale_ValidationError() {
	suite.ledger.On("PostSale", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusBadRequest, "total must be positive", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/sales", `{"reference":"S-4","total":0}`, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "total must be positive")
}

func (suite *HandlersTestSuite) TestPostSale_PersistenceErrorIsHidden() {
	suite.ledger.On("PostSale", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to post transaction",
			fmt.Errorf("%w: connection reset", apperrors.ErrPersistence))).Once()

	w := suite.do(http.MethodPost, "/api/v1/sales", `{"reference":"S-5","total":10}`, nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.JSONEq(`{"error":"Failed to post sale"}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestGetTransaction_NotFound() {
	suite.ledger.On("GetTransaction", mock.Anything, "TXN000404").
		Return(nil, apperrors.NewAppError(http.StatusNotFound, "transaction TXN000404 not found", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/TXN000404", nil, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestListTransactions() {
	suite.ledger.On("ListTransactionsByReference", mock.Anything, "S-1").
		Return([]domain.Transaction{*sampleTransaction("S-1")}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions?reference=S-1", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
}

func (suite *HandlersTestSuite) TestGetAccount_UppercasesCode() {
	suite.accounts.On("GetAccountByCode", mock.Anything, domain.AccountCash).
		Return(&domain.Account{AccountID: "a1", Code: domain.AccountCash, Name: "Cash", Balance: decimal.NewFromInt(40)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/cash", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.NewFromInt(40)))
	suite.accounts.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestExchangeRate_ResolutionFailureListsProviders() {
	suite.exchangeRates.On("Resolve", mock.Anything, "USD", "ZWL", "").
		Return(nil, &apperrors.ResolutionError{Base: "USD", Target: "ZWL", Causes: []apperrors.ProviderFailure{
			{Provider: "Open ER API", Err: apperrors.ErrTransport},
			{Provider: "Currency API", Err: apperrors.ErrRateNotFound},
		}}).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/USD/ZWL", nil, nil)

	suite.Equal(http.StatusBadGateway, w.Code)
	var body struct {
		Error     string                        `json:"error"`
		Providers []dto.ProviderFailureResponse `json:"providers"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(apperrors.ErrRateResolution.Error(), body.Error)
	suite.Require().Len(body.Providers, 2)
	suite.Equal("Open ER API", body.Providers[0].Provider)
	suite.Equal(apperrors.ErrRateNotFound.Error(), body.Providers[1].Error)
}

func (suite *HandlersTestSuite) TestExchangeRate_PreferredProvider() {
	suite.exchangeRates.On("Resolve", mock.Anything, "USD", "EUR", "currency_api").
		Return(&domain.ExchangeRate{BaseCurrency: "USD", TargetCurrency: "EUR", Rate: decimal.RequireFromString("0.92"), ProviderName: "Currency API"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/USD/EUR?provider=currency_api", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExchangeRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Currency API", resp.Provider)
}

func (suite *HandlersTestSuite) TestUpdateSettings_RejectsUnknownFrequency() {
	w := suite.do(http.MethodPut, "/api/v1/currency/settings", `{"updateFrequency":"monthly"}`, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.settings.AssertNotCalled(suite.T(), "UpdateSettings", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestRateStatus_NoRunYet() {
	suite.updater.On("LastSummary").Return(nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/currency/rates/status", nil, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestRefreshRates_RateLimited() {
	summary := &domain.RateUpdateSummary{BaseCurrency: "USD", UpdatedCount: 2}
	suite.updater.On("ForceUpdate", mock.Anything).Return(summary, nil).Once()

	first := suite.do(http.MethodPost, "/api/v1/currency/rates/refresh", nil, nil)
	second := suite.do(http.MethodPost, "/api/v1/currency/rates/refresh", nil, nil)

	suite.Equal(http.StatusOK, first.Code)
	suite.Equal(http.StatusTooManyRequests, second.Code)
	suite.updater.AssertNumberOfCalls(suite.T(), "ForceUpdate", 1)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
