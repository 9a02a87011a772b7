package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of balance movement a record documents.
type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
	Transfer   TransactionType = "transfer"
)

// TransactionStatus is the settlement state of a record.
// Pending and Failed are reserved for asynchronous settlement; the ledger
// engine only ever writes Completed records.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// MaxDescriptionLength mirrors the VARCHAR(255) description column.
const MaxDescriptionLength = 255

// MaxUserDescriptionLength bounds caller-supplied descriptions so that the
// "Transfer to account <number>: " prefix still fits the column.
const MaxUserDescriptionLength = 200

// Transaction is an immutable record of one balance movement on one account.
type Transaction struct {
	TransactionID   int64             `json:"transactionID"` // Assigned by the store, monotonic
	Amount          decimal.Decimal   `json:"amount"`        // Always positive
	TransactionType TransactionType   `json:"transactionType"`
	Status          TransactionStatus `json:"status"`
	Description     *string           `json:"description"` // Nullable
	AccountID       int64             `json:"accountID"`   // FK -> accounts.account_id
	CreatedAt       time.Time         `json:"createdAt"`
}

// DescriptionOrEmpty returns the description or "" when unset.
func (t *Transaction) DescriptionOrEmpty() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}
