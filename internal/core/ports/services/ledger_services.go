package services

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerWriterSvc defines the balance-changing operations of the ledger engine.
// Each call is one atomic unit: it either commits fully or leaves no trace.
// callerID is the pre-authenticated owner id; it is trusted verbatim.
type LedgerWriterSvc interface {
	// Deposit credits an owned account and records a completed deposit.
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string, callerID int64) (*domain.Transaction, error)

	// Withdraw debits an owned account under an exclusive lock and records a completed withdrawal.
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string, callerID int64) (*domain.Transaction, error)

	// Transfer moves amount between two accounts, locking them in ascending id
	// order, and returns the debit record written on the source account.
	Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal, description string, callerID int64) (*domain.Transaction, error)
}

// LedgerReaderSvc defines read operations of the ledger engine.
type LedgerReaderSvc interface {
	// GetHistory returns every record of an owned account, newest first.
	GetHistory(ctx context.Context, accountID int64, callerID int64) ([]domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
