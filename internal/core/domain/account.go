package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product category of an account.
type AccountType string

const (
	Savings  AccountType = "savings"
	Checking AccountType = "checking"
)

// IsValid reports whether t is a known account category.
func (t AccountType) IsValid() bool {
	return t == Savings || t == Checking
}

// AccountNumberLength is the number of digits in an externally visible account number.
const AccountNumberLength = 12

// Account is a balance-holding account owned by exactly one user.
// Balance is only ever written by the ledger engine.
type Account struct {
	AccountID     int64           `json:"accountID"`     // Primary key, assigned by the store
	AccountNumber string          `json:"accountNumber"` // Unique, 12 digits
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"` // NUMERIC(15,2), never negative
	OwnerID       int64           `json:"ownerID"` // FK -> users.user_id
	CreatedAt     time.Time       `json:"createdAt"`
}

// IsOwnedBy reports whether callerID owns the account.
func (a *Account) IsOwnedBy(callerID int64) bool {
	return a.OwnerID == callerID
}

// CanCover reports whether the balance is at least amount.
func (a *Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
