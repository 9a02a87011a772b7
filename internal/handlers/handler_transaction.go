package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler exposes the ledger engine over HTTP.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ls}
}

// registerTransactionRoutes registers the balance-changing and history routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	txns := rg.Group("/transactions")
	{
		txns.POST("/deposit", h.deposit)
		txns.POST("/withdraw", h.withdraw)
		txns.POST("/transfer", h.transfer)
		txns.GET("/history/:accountID", h.history)
	}
}

// deposit godoc
// @Summary Deposit into an account
// @Tags transactions
// @Accept json
// @Produce json
// @Param deposit body dto.DepositWithdrawRequest true "Deposit"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 403 {object} ErrorResponse "Not your account"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 409 {object} ErrorResponse "Account busy, retry"
// @Security BearerAuth
// @Router /transactions/deposit [post]
func (h *transactionHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := callerID(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.Deposit(c.Request.Context(), req.AccountID, *req.Amount, req.Description, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to deposit")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// withdraw godoc
// @Summary Withdraw from an account
// @Tags transactions
// @Accept json
// @Produce json
// @Param withdraw body dto.DepositWithdrawRequest true "Withdrawal"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or insufficient funds"
// @Failure 403 {object} ErrorResponse "Not your account"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 409 {object} ErrorResponse "Account busy, retry"
// @Security BearerAuth
// @Router /transactions/withdraw [post]
func (h *transactionHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := callerID(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.Withdraw(c.Request.Context(), req.AccountID, *req.Amount, req.Description, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to withdraw")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// transfer godoc
// @Summary Transfer between accounts
// @Description Moves money from an owned account to any account. Returns the debit record.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount, same account or insufficient funds"
// @Failure 403 {object} ErrorResponse "Not your account"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 409 {object} ErrorResponse "Account busy, retry"
// @Security BearerAuth
// @Router /transactions/transfer [post]
func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := callerID(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.Transfer(c.Request.Context(), req.FromAccountID, req.ToAccountID, *req.Amount, req.Description, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// history godoc
// @Summary Transaction history
// @Description Every record of an owned account, newest first.
// @Tags transactions
// @Produce json
// @Param accountID path int true "Account ID"
// @Success 200 {array} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse "Not your account"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /transactions/history/{accountID} [get]
func (h *transactionHandler) history(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseIDParam(c, "accountID")
	if !ok {
		return
	}
	userID, ok := callerID(c, logger)
	if !ok {
		return
	}

	txns, err := h.ledgerService.GetHistory(c.Request.Context(), accountID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to load history")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}
