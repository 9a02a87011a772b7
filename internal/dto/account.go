package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	AccountType domain.AccountType `json:"accountType" binding:"omitempty,accounttype"` // Defaults to savings
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     int64              `json:"accountID"`
	AccountNumber string             `json:"accountNumber"`
	AccountType   domain.AccountType `json:"accountType"`
	Balance       string             `json:"balance"`
	OwnerID       int64              `json:"ownerID"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		AccountType:   acc.AccountType,
		Balance:       domain.FormatMoney(acc.Balance),
		OwnerID:       acc.OwnerID,
		CreatedAt:     acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
