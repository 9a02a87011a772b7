package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService moves money between balances. Every operation runs in one
// storage transaction and every balance-gating read is a locked read.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
	txnRepo     portsrepo.TransactionRecorder
}

// NewLedgerService creates a new ledger engine. accountRepo and txnRepo must
// share one storage substrate so that their writes commit together.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryWithTx, txnRepo portsrepo.TransactionRecorder) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Deposit credits an owned account.
func (s *ledgerService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string, callerID int64) (*domain.Transaction, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin deposit", slog.Int64("account_id", accountID))
		return nil, err
	}
	defer s.accountRepo.Rollback(ctx, tx)

	acc, err := s.lockAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: id %d", apperrors.ErrAccountNotFound, accountID)
	}
	if !acc.IsOwnedBy(callerID) {
		return nil, apperrors.ErrForbidden
	}
	if !domain.IsValidAmount(amount) {
		return nil, invalidAmount(amount)
	}

	balance, err := accounting.Credit(acc.Balance, amount)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, acc.AccountID, balance); err != nil {
		s.LogError(ctx, err, "Failed to update balance", slog.Int64("account_id", acc.AccountID))
		return nil, err
	}

	record := newRecord(acc.AccountID, amount, domain.Deposit, description)
	if err := s.txnRepo.AppendTransactionInTx(ctx, tx, record); err != nil {
		s.LogError(ctx, err, "Failed to append deposit record", slog.Int64("account_id", acc.AccountID))
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit deposit", slog.Int64("account_id", acc.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Deposit completed",
		slog.Int64("account_id", acc.AccountID),
		slog.Int64("transaction_id", record.TransactionID),
		slog.String("amount", domain.FormatMoney(amount)))
	return record, nil
}

// Withdraw debits an owned account. The balance check runs under the row lock.
func (s *ledgerService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string, callerID int64) (*domain.Transaction, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin withdrawal", slog.Int64("account_id", accountID))
		return nil, err
	}
	defer s.accountRepo.Rollback(ctx, tx)

	acc, err := s.lockAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: id %d", apperrors.ErrAccountNotFound, accountID)
	}
	if !acc.IsOwnedBy(callerID) {
		return nil, apperrors.ErrForbidden
	}
	if !domain.IsValidAmount(amount) {
		return nil, invalidAmount(amount)
	}

	balance, err := accounting.Debit(acc.Balance, amount)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, acc.AccountID, balance); err != nil {
		s.LogError(ctx, err, "Failed to update balance", slog.Int64("account_id", acc.AccountID))
		return nil, err
	}

	record := newRecord(acc.AccountID, amount, domain.Withdrawal, description)
	if err := s.txnRepo.AppendTransactionInTx(ctx, tx, record); err != nil {
		s.LogError(ctx, err, "Failed to append withdrawal record", slog.Int64("account_id", acc.AccountID))
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit withdrawal", slog.Int64("account_id", acc.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Withdrawal completed",
		slog.Int64("account_id", acc.AccountID),
		slog.Int64("transaction_id", record.TransactionID),
		slog.String("amount", domain.FormatMoney(amount)))
	return record, nil
}

// Transfer moves amount between two accounts and returns the debit record.
// Rows are locked in ascending id order whatever the direction, so two
// opposing transfers can never wait on each other.
func (s *ledgerService) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal, description string, callerID int64) (*domain.Transaction, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transfer",
			slog.Int64("from_account_id", fromAccountID),
			slog.Int64("to_account_id", toAccountID))
		return nil, err
	}
	defer s.accountRepo.Rollback(ctx, tx)

	firstID, secondID := fromAccountID, toAccountID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := s.lockAccount(ctx, tx, firstID)
	if err != nil {
		return nil, err
	}
	second := first
	if secondID != firstID {
		if second, err = s.lockAccount(ctx, tx, secondID); err != nil {
			return nil, err
		}
	}

	from, to := first, second
	if fromAccountID != firstID {
		from, to = second, first
	}

	switch {
	case from == nil:
		return nil, fmt.Errorf("%w: source id %d", apperrors.ErrAccountNotFound, fromAccountID)
	case to == nil:
		return nil, fmt.Errorf("%w: destination id %d", apperrors.ErrAccountNotFound, toAccountID)
	case !from.IsOwnedBy(callerID):
		return nil, apperrors.ErrForbidden
	case from.AccountID == to.AccountID:
		return nil, apperrors.ErrSameAccount
	case !domain.IsValidAmount(amount):
		return nil, invalidAmount(amount)
	}

	fromBalance, err := accounting.Debit(from.Balance, amount)
	if err != nil {
		return nil, err
	}
	toBalance, err := accounting.Credit(to.Balance, amount)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, from.AccountID, fromBalance); err != nil {
		s.LogError(ctx, err, "Failed to update source balance", slog.Int64("account_id", from.AccountID))
		return nil, err
	}
	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, to.AccountID, toBalance); err != nil {
		s.LogError(ctx, err, "Failed to update destination balance", slog.Int64("account_id", to.AccountID))
		return nil, err
	}

	debit := newRecord(from.AccountID, amount, domain.Transfer, transferDescription("Transfer to account", to.AccountNumber, description))
	if err := s.txnRepo.AppendTransactionInTx(ctx, tx, debit); err != nil {
		s.LogError(ctx, err, "Failed to append transfer debit record", slog.Int64("account_id", from.AccountID))
		return nil, err
	}
	credit := newRecord(to.AccountID, amount, domain.Transfer, transferDescription("Transfer from account", from.AccountNumber, description))
	if err := s.txnRepo.AppendTransactionInTx(ctx, tx, credit); err != nil {
		s.LogError(ctx, err, "Failed to append transfer credit record", slog.Int64("account_id", to.AccountID))
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit transfer",
			slog.Int64("from_account_id", from.AccountID),
			slog.Int64("to_account_id", to.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.Int64("from_account_id", from.AccountID),
		slog.Int64("to_account_id", to.AccountID),
		slog.Int64("debit_transaction_id", debit.TransactionID),
		slog.Int64("credit_transaction_id", credit.TransactionID),
		slog.String("amount", domain.FormatMoney(amount)))
	return debit, nil
}

// GetHistory lists an owned account's records, newest first.
func (s *ledgerService) GetHistory(ctx context.Context, accountID int64, callerID int64) ([]domain.Transaction, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", apperrors.ErrAccountNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to load account for history", slog.Int64("account_id", accountID))
		return nil, err
	}
	if !acc.IsOwnedBy(callerID) {
		return nil, apperrors.ErrForbidden
	}

	history, err := s.txnRepo.ListTransactionsByAccountID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int64("account_id", accountID))
		return nil, err
	}
	return history, nil
}

// lockAccount takes the row lock for accountID. A missing row yields (nil, nil)
// so that callers can apply their own validation order.
func (s *ledgerService) lockAccount(ctx context.Context, tx portsrepo.Tx, accountID int64) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		if errors.Is(err, apperrors.ErrContention) {
			s.LogWarn(ctx, err, "Lock wait exceeded", slog.Int64("account_id", accountID))
		} else {
			s.LogError(ctx, err, "Failed to lock account", slog.Int64("account_id", accountID))
		}
		return nil, err
	}
	return acc, nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > domain.MaxUserDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", apperrors.ErrValidation, domain.MaxUserDescriptionLength)
	}
	return nil
}

func invalidAmount(amount decimal.Decimal) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, amount.String())
}

func transferDescription(prefix, accountNumber, description string) string {
	out := prefix + " " + accountNumber
	if description != "" {
		out += ": " + description
	}
	return out
}

func newRecord(accountID int64, amount decimal.Decimal, kind domain.TransactionType, description string) *domain.Transaction {
	record := &domain.Transaction{
		Amount:          amount,
		TransactionType: kind,
		Status:          domain.StatusCompleted,
		AccountID:       accountID,
	}
	if description != "" {
		record.Description = &description
	}
	return record
}
