package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// maxAccountNumberAttempts bounds the search for an unused account number.
const maxAccountNumberAttempts = 10

// accountService is the account directory: it allocates numbers and answers
// ownership lookups. It never touches balances after creation.
type accountService struct {
	BaseService
	accountRepo    portsrepo.AccountRepositoryFacade
	generateNumber func() (string, error)
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountNumberGenerator replaces the random account number source.
func WithAccountNumberGenerator(gen func() (string, error)) AccountServiceOption {
	return func(s *accountService) {
		s.generateNumber = gen
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		generateNumber: func() (string, error) {
			return utils.GenerateAccountNumber(domain.AccountNumberLength)
		},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// OpenAccount creates a zero-balance account for ownerID.
func (s *accountService) OpenAccount(ctx context.Context, ownerID int64, accountType domain.AccountType) (*domain.Account, error) {
	if accountType == "" {
		accountType = domain.Savings
	}
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}

	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		number, err := s.generateNumber()
		if err != nil {
			s.LogError(ctx, err, "Failed to generate account number")
			return nil, err
		}

		exists, err := s.accountRepo.AccountNumberExists(ctx, number)
		if err != nil {
			s.LogError(ctx, err, "Failed to check account number", slog.String("account_number", number))
			return nil, err
		}
		if exists {
			continue
		}

		account := &domain.Account{
			AccountNumber: number,
			AccountType:   accountType,
			Balance:       decimal.Zero,
			OwnerID:       ownerID,
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// lost a race for the same number
				continue
			}
			s.LogError(ctx, err, "Failed to save account", slog.Int64("owner_id", ownerID))
			return nil, err
		}

		s.LogInfo(ctx, "Account opened",
			slog.Int64("account_id", account.AccountID),
			slog.Int64("owner_id", ownerID),
			slog.String("account_type", string(accountType)))
		return account, nil
	}

	err := fmt.Errorf("could not allocate a unique account number after %d attempts", maxAccountNumberAttempts)
	s.LogError(ctx, err, "Account number space exhausted", slog.Int64("owner_id", ownerID))
	return nil, err
}

// ListMyAccounts returns the caller's accounts.
func (s *accountService) ListMyAccounts(ctx context.Context, ownerID int64) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.Int64("owner_id", ownerID))
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// GetAccount returns one account if callerID owns it.
func (s *accountService) GetAccount(ctx context.Context, accountID int64, callerID int64) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", apperrors.ErrAccountNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to get account", slog.Int64("account_id", accountID))
		return nil, err
	}
	if !acc.IsOwnedBy(callerID) {
		return nil, apperrors.ErrForbidden
	}
	return acc, nil
}
