package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	providerA *MockRateProvider
	providerB *MockRateProvider
	metrics   *recordingMetrics
	service   portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.providerA = newMockProvider("provider_a", "Provider A")
	suite.providerB = newMockProvider("provider_b", "Provider B")
	suite.metrics = newRecordingMetrics()
	suite.service = services.NewExchangeRateService(
		[]portssvc.RateProvider{suite.providerA, suite.providerB},
		services.WithExchangeRateMetrics(suite.metrics),
	)
}

func rateFrom(provider string, rate string) *domain.ExchangeRate {
	return &domain.ExchangeRate{
		BaseCurrency:   "USD",
		TargetCurrency: "ZWL",
		Rate:           decimal.RequireFromString(rate),
		ProviderName:   provider,
		ObservedAt:     time.Now().UTC(),
	}
}

func (suite *ExchangeRateServiceTestSuite) TestResolve_IdentityPairSkipsProviders() {
	rate, err := suite.service.Resolve(context.Background(), "usd", "USD", "")

	suite.Require().NoError(err)
	suite.True(rate.Rate.Equal(decimal.NewFromInt(1)))
	suite.Equal(domain.InternalProvider, rate.ProviderName)
	suite.providerA.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
	suite.providerB.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestResolve_FirstProviderWins() {
	ctx := context.Background()
	suite.providerA.On("FetchRate", ctx, "USD", "ZWL").Return(rateFrom("Provider A", "13500"), nil).Once()

	rate, err := suite.service.Resolve(ctx, "USD", "ZWL", "")

	suite.Require().NoError(err)
	suite.Equal("Provider A", rate.ProviderName)
	suite.providerB.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
	suite.Equal(1, suite.metrics.attempts["provider_a/success"])
}

func (suite *ExchangeRateServiceTestSuite) TestResolve_FallsThroughToNextProvider() {
	ctx := context.Background()
	suite.providerA.On("FetchRate", ctx, "USD", "ZWL").
		Return(nil, fmt.Errorf("%w: status 503", apperrors.ErrTransport)).Once()
	suite.providerB.On("FetchRate", ctx, "USD", "ZWL").Return(rateFrom("Provider B", "13500.25"), nil).Once()

	rate, err := suite.service.Resolve(ctx, "USD", "ZWL", "provider_a")

	suite.Require().NoError(err)
	suite.Equal("Provider B", rate.ProviderName)
	suite.True(rate.Rate.Equal(decimal.RequireFromString("13500.25")))
	suite.providerA.AssertNumberOfCalls(suite.T(), "FetchRate", 1)
	suite.providerB.AssertNumberOfCalls(suite.T(), "FetchRate", 1)
	suite.Equal(1, suite.metrics.attempts["provider_a/transport"])
	suite.Equal(1, suite.metrics.attempts["provider_b/success"])
}

func (suite *ExchangeRateServiceTestSuite) TestResolve_PreferredProviderGoesFirst() {
	ctx := context.Background()
	suite.providerB.On("FetchRate", ctx, "USD", "ZWL").Return(rateFrom("Provider B", "13400"), nil).Once()

	rate, err := suite.service.Resolve(ctx, "USD", "ZWL", "provider_b")

	suite.Require().NoError(err)
	suite.Equal("Provider B", rate.ProviderName)
	suite.providerA.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestResolve_AllProvidersFail() {
	ctx := context.Background()
	suite.providerA.On("FetchRate", ctx, "USD", "ZWL").
		Return(nil, fmt.Errorf("%w: bad json", apperrors.ErrMalformedResponse)).Once()
	suite.providerB.On("FetchRate", ctx, "USD", "ZWL").
		Return(nil, fmt.Errorf("%w: ZWL", apperrors.ErrRateNotFound)).Once()

	rate, err := suite.service.Resolve(ctx, "USD", "ZWL", "")

	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrRateResolution)
	var resolution *apperrors.ResolutionError
	suite.Require().True(errors.As(err, &resolution))
	suite.Require().Len(resolution.Causes, 2)
	suite.Equal("Provider A", resolution.Causes[0].Provider)
	suite.Equal("Provider B", resolution.Causes[1].Provider)
	suite.ErrorIs(err, apperrors.ErrMalformedResponse)
	suite.ErrorIs(resolution.Last(), apperrors.ErrRateNotFound)
	suite.Contains(err.Error(), "USD->ZWL")
	suite.Equal(1, suite.metrics.attempts["provider_a/malformed"])
	suite.Equal(1, suite.metrics.attempts["provider_b/not_found"])
}

func (suite *ExchangeRateServiceTestSuite) TestResolve_NoProviders() {
	svc := services.NewExchangeRateService(nil)

	_, err := svc.Resolve(context.Background(), "USD", "EUR", "")

	suite.ErrorIs(err, apperrors.ErrRateResolution)
	var resolution *apperrors.ResolutionError
	suite.Require().True(errors.As(err, &resolution))
	suite.Nil(resolution.Last())
}

func (suite *ExchangeRateServiceTestSuite) TestResolve_InvalidCurrencyCodes() {
	for _, pair := range [][2]string{{"US", "ZWL"}, {"USD", "Z1L"}, {"", "EUR"}, {"USDX", "EUR"}} {
		_, err := suite.service.Resolve(context.Background(), pair[0], pair[1], "")
		suite.ErrorIs(err, apperrors.ErrValidation, "pair %v", pair)
	}
	suite.providerA.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestProviders_RegistrationOrder() {
	suite.Equal([]string{"provider_a", "provider_b"}, suite.service.Providers())
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
