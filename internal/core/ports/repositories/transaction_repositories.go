package repositories

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// TransactionWriter appends immutable transaction records.
type TransactionWriter interface {
	// AppendTransactionInTx inserts a record inside tx and fills in
	// TransactionID and CreatedAt. Records are never updated afterwards.
	AppendTransactionInTx(ctx context.Context, tx Tx, txn *domain.Transaction) error
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// ListTransactionsByAccountID returns every record of an account, newest
	// first (created_at DESC, transaction_id DESC). Never returns nil on success.
	ListTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

// TransactionRecorder combines the append-only writer and the history reader.
type TransactionRecorder interface {
	TransactionWriter
	TransactionReader
}
