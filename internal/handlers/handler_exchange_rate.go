package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/dto"
	"github.com/SscSPs/sales_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles live exchange rate lookups.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, ers portssvc.ExchangeRateSvcFacade) {
	h := &exchangeRateHandler{exchangeRateService: ers}

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("/providers", h.listProviders)
		rates.GET("/:fromCurrency/:toCurrency", h.getExchangeRate)
	}
}

// getExchangeRate godoc
// @Summary Resolve a live exchange rate
// @Description Asks the configured providers in order and returns the first rate found
// @Tags exchange-rates
// @Produce  json
// @Param   fromCurrency path string true "Base currency code (e.g., USD)"
// @Param   toCurrency path string true "Target currency code (e.g., ZWL)"
// @Param   provider query string false "Key of the provider to try first"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 502 {object} map[string]interface{} "Every provider failed"
// @Router /exchange-rates/{fromCurrency}/{toCurrency} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := c.Param("fromCurrency")
	to := c.Param("toCurrency")
	logger = logger.With(slog.String("from_currency", from), slog.String("to_currency", to))

	rate, err := h.exchangeRateService.Resolve(c.Request.Context(), from, to, c.Query("provider"))
	if err != nil {
		respondError(c, logger, err, "Failed to resolve exchange rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// listProviders godoc
// @Summary List rate providers in fallback order
// @Tags exchange-rates
// @Produce  json
// @Success 200 {object} map[string][]string
// @Router /exchange-rates/providers [get]
func (h *exchangeRateHandler) listProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.exchangeRateService.Providers()})
}
