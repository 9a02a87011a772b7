package repositories

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
// Reads through AccountReader take no lock and must not gate a balance change.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// ListAccountsByOwner retrieves every account owned by a user, oldest first.
	ListAccountsByOwner(ctx context.Context, ownerID int64) ([]domain.Account, error)

	// AccountNumberExists reports whether an account number is already allocated.
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and fills in AccountID and CreatedAt.
	SaveAccount(ctx context.Context, account *domain.Account) error
}

// AccountTransactionSupport defines operations that support account transactions
type AccountTransactionSupport interface {
	// FindAccountByIDForUpdate selects an account and locks its row exclusively
	// until tx ends. It blocks while another transaction holds the lock and
	// returns apperrors.ErrAccountNotFound when the row does not exist.
	FindAccountByIDForUpdate(ctx context.Context, tx Tx, accountID int64) (*domain.Account, error)

	// UpdateAccountBalanceInTx persists a new balance for a row locked by tx.
	UpdateAccountBalanceInTx(ctx context.Context, tx Tx, accountID int64, balance decimal.Decimal) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
