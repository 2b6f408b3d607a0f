package handlers

import (
	"net/http"
	"strings"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/dto"
	"github.com/SscSPs/sales_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountReaderSvc
}

// registerAccountRoutes registers the read-only account routes.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountReaderSvc) {
	h := &accountHandler{accountService: accountService}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:code", h.getAccount)
	}
}

// listAccounts godoc
// @Summary List ledger accounts with their balances
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccount godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code: CASH, AR, SALES or TAX_PAY"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{code} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := domain.AccountCode(strings.ToUpper(c.Param("code")))

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
