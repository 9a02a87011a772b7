package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositWithdrawRequest is the body of deposit and withdraw calls.
// Amount is parsed exactly from either a JSON string or a JSON number literal.
type DepositWithdrawRequest struct {
	AccountID   int64            `json:"accountID" binding:"required,gt=0"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Description string           `json:"description" binding:"max=200"` // Optional
}

// TransferRequest is the body of a transfer call.
type TransferRequest struct {
	FromAccountID int64            `json:"fromAccountID" binding:"required,gt=0"`
	ToAccountID   int64            `json:"toAccountID" binding:"required,gt=0"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Description   string           `json:"description" binding:"max=200"` // Optional
}

// TransactionResponse defines the data returned for a transaction record.
// Amount is always rendered with two fractional digits.
type TransactionResponse struct {
	TransactionID   int64                    `json:"transactionID"`
	Amount          string                   `json:"amount"`
	TransactionType domain.TransactionType   `json:"transactionType"`
	Status          domain.TransactionStatus `json:"status"`
	Description     *string                  `json:"description"`
	AccountID       int64                    `json:"accountID"`
	CreatedAt       time.Time                `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		Amount:          domain.FormatMoney(txn.Amount),
		TransactionType: txn.TransactionType,
		Status:          txn.Status,
		Description:     txn.Description,
		AccountID:       txn.AccountID,
		CreatedAt:       txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
