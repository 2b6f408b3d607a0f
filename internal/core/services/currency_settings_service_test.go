package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/core/services"
	"github.com/SscSPs/sales_ledger/internal/dto"
	"github.com/SscSPs/sales_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CurrencySettingsServiceTestSuite struct {
	suite.Suite
	repos   portsrepo.RepositoryProvider
	service portssvc.CurrencySettingsSvcFacade
}

func (suite *CurrencySettingsServiceTestSuite) SetupTest() {
	suite.repos = memory.NewStore().Repositories()
	suite.service = services.NewCurrencySettingsService(suite.repos.CurrencySettingsRepo, services.CurrencyDefaults{
		BaseCurrency:    "usd",
		Supported:       []string{"ZWL", "eur", "USD", "ZWL"},
		AutoUpdateRates: true,
		UpdateFrequency: domain.UpdateFrequency("fortnightly"),
	})
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func (suite *CurrencySettingsServiceTestSuite) TestBootstrap_SeedsDefaults() {
	settings, err := suite.service.Bootstrap(context.Background())

	suite.Require().NoError(err)
	suite.Equal("USD", settings.BaseCurrency)
	suite.Equal("USD", settings.DefaultCurrency)
	suite.Equal(domain.Daily, settings.UpdateFrequency)
	suite.True(settings.AutoUpdateRates)
	suite.Nil(settings.LastAutoUpdate)
	suite.Require().Len(settings.SupportedCurrencies, 3)
	suite.Equal("USD", settings.SupportedCurrencies[0].Code)
	suite.True(settings.SupportedCurrencies[0].ExchangeRate.Equal(decimal.NewFromInt(1)))
	suite.Equal([]string{"ZWL", "EUR"}, settings.RefreshTargets())
}

func (suite *CurrencySettingsServiceTestSuite) TestBootstrap_KeepsExistingSettings() {
	ctx := context.Background()
	_, err := suite.service.Bootstrap(ctx)
	suite.Require().NoError(err)
	_, err = suite.service.UpdateSettings(ctx, dto.UpdateCurrencySettingsRequest{AutoUpdateRates: boolPtr(false)}, "admin")
	suite.Require().NoError(err)

	settings, err := suite.service.Bootstrap(ctx)

	suite.Require().NoError(err)
	suite.False(settings.AutoUpdateRates)
}

func (suite *CurrencySettingsServiceTestSuite) TestBootstrap_InvalidBase() {
	svc := services.NewCurrencySettingsService(suite.repos.CurrencySettingsRepo, services.CurrencyDefaults{BaseCurrency: "DOLLAR"})

	_, err := svc.Bootstrap(context.Background())

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencySettingsServiceTestSuite) TestGetSettings_NotBootstrapped() {
	_, err := suite.service.GetSettings(context.Background())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CurrencySettingsServiceTestSuite) TestUpdateSettings_MergesCurrencyList() {
	ctx := context.Background()
	_, err := suite.service.Bootstrap(ctx)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.CurrencySettingsRepo.SaveRates(ctx,
		[]domain.SupportedCurrency{{Code: "ZWL", ExchangeRate: decimal.NewFromInt(13500)}}, nil))

	manual := decimal.RequireFromString("18.4")
	updated, err := suite.service.UpdateSettings(ctx, dto.UpdateCurrencySettingsRequest{
		DefaultCurrency: strPtr("zwl"),
		SupportedCurrencies: []dto.SupportedCurrencyRequest{
			{Code: "ZWL", IsActive: true},
			{Code: "ZAR", IsActive: true, ExchangeRate: &manual},
		},
		UpdateFrequency: strPtr("Hourly"),
	}, "admin")

	suite.Require().NoError(err)
	suite.Equal("ZWL", updated.DefaultCurrency)
	suite.Equal(domain.Hourly, updated.UpdateFrequency)
	suite.Equal("admin", updated.LastUpdatedBy)
	suite.Require().Len(updated.SupportedCurrencies, 3)
	suite.Equal("USD", updated.SupportedCurrencies[0].Code)

	zwl, _ := updated.Find("ZWL")
	suite.True(zwl.ExchangeRate.Equal(decimal.NewFromInt(13500)))
	zar, _ := updated.Find("ZAR")
	suite.True(zar.ExchangeRate.Equal(manual))
	suite.NotNil(zar.LastUpdated)
	_, hasEUR := updated.Find("EUR")
	suite.False(hasEUR)

	stored, err := suite.service.GetSettings(ctx)
	suite.Require().NoError(err)
	suite.Equal(updated.SupportedCurrencies, stored.SupportedCurrencies)
}

func (suite *CurrencySettingsServiceTestSuite) TestUpdateSettings_Rejections() {
	ctx := context.Background()
	_, err := suite.service.Bootstrap(ctx)
	suite.Require().NoError(err)
	zero := decimal.Zero

	tests := []struct {
		name string
		req  dto.UpdateCurrencySettingsRequest
	}{
		{name: "unknown frequency", req: dto.UpdateCurrencySettingsRequest{UpdateFrequency: strPtr("monthly")}},
		{name: "default not supported", req: dto.UpdateCurrencySettingsRequest{DefaultCurrency: strPtr("JPY")}},
		{name: "duplicate code", req: dto.UpdateCurrencySettingsRequest{SupportedCurrencies: []dto.SupportedCurrencyRequest{{Code: "EUR"}, {Code: "eur"}}}},
		{name: "bad code", req: dto.UpdateCurrencySettingsRequest{SupportedCurrencies: []dto.SupportedCurrencyRequest{{Code: "EURO"}}}},
		{name: "non-positive manual rate", req: dto.UpdateCurrencySettingsRequest{SupportedCurrencies: []dto.SupportedCurrencyRequest{{Code: "EUR", ExchangeRate: &zero}}}},
		{name: "default inactive", req: dto.UpdateCurrencySettingsRequest{
			DefaultCurrency:     strPtr("EUR"),
			SupportedCurrencies: []dto.SupportedCurrencyRequest{{Code: "EUR", IsActive: false}},
		}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.UpdateSettings(ctx, tt.req, "admin")
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *CurrencySettingsServiceTestSuite) TestUpdateSettings_ListMustKeepDefault() {
	ctx := context.Background()
	_, err := suite.service.Bootstrap(ctx)
	suite.Require().NoError(err)
	_, err = suite.service.UpdateSettings(ctx, dto.UpdateCurrencySettingsRequest{DefaultCurrency: strPtr("ZWL")}, "admin")
	suite.Require().NoError(err)

	tests := []struct {
		name string
		list []dto.SupportedCurrencyRequest
	}{
		{name: "default dropped", list: []dto.SupportedCurrencyRequest{{Code: "EUR", IsActive: true}}},
		{name: "default deactivated", list: []dto.SupportedCurrencyRequest{{Code: "ZWL", IsActive: false}}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.UpdateSettings(ctx, dto.UpdateCurrencySettingsRequest{SupportedCurrencies: tt.list}, "admin")
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	stored, err := suite.service.GetSettings(ctx)
	suite.Require().NoError(err)
	suite.Equal("ZWL", stored.DefaultCurrency)
	zwl, ok := stored.Find("ZWL")
	suite.True(ok)
	suite.True(zwl.IsActive)

	updated, err := suite.service.UpdateSettings(ctx, dto.UpdateCurrencySettingsRequest{
		DefaultCurrency:     strPtr("USD"),
		SupportedCurrencies: []dto.SupportedCurrencyRequest{{Code: "EUR", IsActive: true}},
	}, "admin")
	suite.Require().NoError(err)
	suite.Equal("USD", updated.DefaultCurrency)
}

func (suite *CurrencySettingsServiceTestSuite) TestUpdateSettings_BaseEntryStaysAtOne() {
	ctx := context.Background()
	_, err := suite.service.Bootstrap(ctx)
	suite.Require().NoError(err)
	seven := decimal.NewFromInt(7)

	updated, err := suite.service.UpdateSettings(ctx, dto.UpdateCurrencySettingsRequest{
		SupportedCurrencies: []dto.SupportedCurrencyRequest{{Code: "USD", IsActive: false, ExchangeRate: &seven}},
	}, "")

	suite.Require().NoError(err)
	suite.Require().Len(updated.SupportedCurrencies, 1)
	suite.True(updated.SupportedCurrencies[0].IsActive)
	suite.True(updated.SupportedCurrencies[0].ExchangeRate.Equal(decimal.NewFromInt(1)))
	suite.Equal(domain.SystemUser, updated.LastUpdatedBy)
}

func (suite *CurrencySettingsServiceTestSuite) TestUpdateSettings_SaveError() {
	repo := new(MockCurrencySettingsRepository)
	repo.On("GetSettings", mock.Anything).Return(&domain.CurrencySettings{BaseCurrency: "USD"}, nil).Once()
	repo.On("SaveSettings", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	svc := services.NewCurrencySettingsService(repo, services.CurrencyDefaults{BaseCurrency: "USD"})

	_, err := svc.UpdateSettings(context.Background(), dto.UpdateCurrencySettingsRequest{AutoUpdateRates: boolPtr(true)}, "admin")

	suite.ErrorIs(err, assert.AnError)
	repo.AssertExpectations(suite.T())
}

func TestCurrencySettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencySettingsServiceTestSuite))
}
