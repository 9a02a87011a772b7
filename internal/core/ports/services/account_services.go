package services

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// AccountDirectorySvc allocates and looks up accounts for their owners.
type AccountDirectorySvc interface {
	// OpenAccount creates a zero-balance account with a fresh unique account number.
	OpenAccount(ctx context.Context, ownerID int64, accountType domain.AccountType) (*domain.Account, error)

	// ListMyAccounts returns every account owned by the caller.
	ListMyAccounts(ctx context.Context, ownerID int64) ([]domain.Account, error)

	// GetAccount returns one account if the caller owns it.
	GetAccount(ctx context.Context, accountID int64, callerID int64) (*domain.Account, error)
}

// AccountSvcFacade is the facade handed to handlers.
type AccountSvcFacade interface {
	AccountDirectorySvc
}
