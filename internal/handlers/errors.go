package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP statuses. fallback is the message shown for unexpected failures.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var resolution *apperrors.ResolutionError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &resolution):
		logger.Warn("Exchange rate could not be resolved", slog.String("error", err.Error()))
		causes := make([]dto.ProviderFailureResponse, len(resolution.Causes))
		for i, cause := range resolution.Causes {
			causes[i] = dto.ProviderFailureResponse{Provider: cause.Provider, Error: cause.Err.Error()}
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": apperrors.ErrRateResolution.Error(), "providers": causes})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
