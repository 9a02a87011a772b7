package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps service errors onto HTTP statuses. Business rejections
// are logged at Warn and carry the sentinel's message; anything unknown is
// logged at Error and hidden behind fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status, msg := http.StatusInternalServerError, fallback

	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		status, msg = http.StatusNotFound, "account not found"
	case errors.Is(err, apperrors.ErrNotFound):
		status, msg = http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrForbidden):
		status, msg = http.StatusForbidden, apperrors.ErrForbidden.Error()
	case errors.Is(err, apperrors.ErrInvalidAmount):
		status, msg = http.StatusBadRequest, apperrors.ErrInvalidAmount.Error()
	case errors.Is(err, apperrors.ErrSameAccount):
		status, msg = http.StatusBadRequest, apperrors.ErrSameAccount.Error()
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		status, msg = http.StatusBadRequest, apperrors.ErrInsufficientFunds.Error()
	case errors.Is(err, apperrors.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrDuplicate):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrContention):
		c.Header("Retry-After", "1")
		status, msg = http.StatusConflict, apperrors.ErrContention.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{Error: msg})
}

// callerID reads the authenticated user id; it aborts with 401 when absent.
func callerID(c *gin.Context, logger *slog.Logger) (int64, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return 0, false
	}
	return userID, true
}
