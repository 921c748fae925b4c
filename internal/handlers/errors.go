package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/middleware"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrDuplicatePostingInvariantViolated):
		return http.StatusInternalServerError
	case errors.Is(err, apperrors.ErrTaxCeilingExceeded),
		errors.Is(err, apperrors.ErrNoTaxBrackets),
		errors.Is(err, apperrors.ErrMissingChartAccount),
		errors.Is(err, apperrors.ErrInvalidChart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrAccountNotPostable):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrMonthConsolidated),
		errors.Is(err, apperrors.ErrPostingNotEditable),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the JSON error body. Client errors carry the service
// message; server errors carry only the fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	attrs := []any{}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	logger.Warn(message, attrs...)
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
