package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/dto"
	"github.com/SscSPs/sales_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for posting sales and reading transactions.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers routes related to sales postings and transactions.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.POST("/sales", h.postSale)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:number", h.getTransaction)
	}
}

// postSale godoc
// @Summary Post a sale to the ledger
// @Description Records a completed sale or invoice as a balanced transaction and updates account balances
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   sale body dto.PostSaleRequest true "Sale facts, amounts in the base currency"
// @Param   X-Actor-ID header string false "User recorded as the creator"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to post sale"
// @Router /sales [post]
func (h *ledgerHandler) postSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor), slog.String("reference", req.Reference))
	logger.Info("Received request to post sale")

	txn, err := h.ledgerService.PostSale(c.Request.Context(), req.ToSaleFact(), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to post sale")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by number
// @Tags ledger
// @Produce  json
// @Param   number path string true "Transaction number, e.g. TXN000001"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Router /transactions/{number} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number := c.Param("number")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), number)
	if err != nil {
		respondError(c, logger.With(slog.String("transaction_number", number)), err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List the transactions posted for a sale reference
// @Tags ledger
// @Produce  json
// @Param   reference query string true "Sale or invoice reference"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Missing reference"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reference := c.Query("reference")

	txns, err := h.ledgerService.ListTransactionsByReference(c.Request.Context(), reference)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns))
}
