package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/dto"
	"github.com/SscSPs/sales_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles the currency settings and the manual rate refresh.
type currencyHandler struct {
	settingsService portssvc.CurrencySettingsSvcFacade
	rateUpdater     portssvc.RateUpdaterSvc
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(ss portssvc.CurrencySettingsSvcFacade, ru portssvc.RateUpdaterSvc) *currencyHandler {
	return &currencyHandler{
		settingsService: ss,
		rateUpdater:     ru,
	}
}

// registerCurrencyRoutes registers routes related to currency settings. Mutating routes go through admin.
func registerCurrencyRoutes(rg *gin.RouterGroup, ss portssvc.CurrencySettingsSvcFacade, ru portssvc.RateUpdaterSvc, admin ...gin.HandlerFunc) {
	h := newCurrencyHandler(ss, ru)

	currency := rg.Group("/currency")
	{
		currency.GET("/settings", h.getSettings)
		currency.PUT("/settings", withMiddleware(admin, h.updateSettings)...)
		currency.GET("/rates/status", h.rateStatus)
		currency.POST("/rates/refresh", withMiddleware(admin, h.refreshRates)...)
	}
}

// getSettings godoc
// @Summary Get the currency settings
// @Tags currency
// @Produce  json
// @Success 200 {object} dto.CurrencySettingsResponse
// @Failure 404 {object} map[string]string "Settings not initialised"
// @Router /currency/settings [get]
func (h *currencyHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve currency settings")
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencySettingsResponse(settings))
}

// updateSettings godoc
// @Summary Update the currency settings
// @Description Changes the default currency, the supported currency list or the auto-update schedule. The base currency is fixed.
// @Tags currency
// @Accept  json
// @Produce  json
// @Param   settings body dto.UpdateCurrencySettingsRequest true "Fields to change"
// @Success 200 {object} dto.CurrencySettingsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /currency/settings [put]
func (h *currencyHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCurrencySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCurrencySettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger.With(slog.String("actor", actor)), err, "Failed to update currency settings")
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencySettingsResponse(settings))
}

// refreshRates godoc
// @Summary Refresh exchange rates now
// @Description Runs a rate update for every active currency, ignoring the schedule
// @Tags currency
// @Produce  json
// @Success 200 {object} dto.RateUpdateSummaryResponse
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /currency/rates/refresh [post]
func (h *currencyHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Manual rate refresh requested", slog.String("actor", middleware.GetActorFromContext(c)))

	summary, err := h.rateUpdater.ForceUpdate(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to refresh exchange rates")
		return
	}

	c.JSON(http.StatusOK, dto.ToRateUpdateSummaryResponse(summary))
}

// rateStatus godoc
// @Summary Show the most recent rate update
// @Tags currency
// @Produce  json
// @Success 200 {object} dto.RateUpdateSummaryResponse
// @Failure 404 {object} map[string]string "No update has run yet"
// @Router /currency/rates/status [get]
func (h *currencyHandler) rateStatus(c *gin.Context) {
	summary := h.rateUpdater.LastSummary()
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no rate update has run yet"})
		return
	}
	c.JSON(http.StatusOK, dto.ToRateUpdateSummaryResponse(summary))
}
