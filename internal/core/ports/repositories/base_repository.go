package repositories

import (
	"context"
)

// Tx is a handle to one open atomic unit on the persistence substrate.
// Each storage adapter hands out its own concrete type and rejects handles
// it did not create. Row locks taken through a Tx are held until Commit or
// Rollback.
type Tx interface{}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (Tx, error)

	// Commit commits a transaction, releasing every lock it holds
	Commit(ctx context.Context, tx Tx) error

	// Rollback rolls back a transaction. Rolling back a committed or
	// already rolled back transaction is a no-op.
	Rollback(ctx context.Context, tx Tx) error
}

// RepositoryWithTx is a marker interface for repositories that support transactions
type RepositoryWithTx interface {
	TransactionManager
}
