package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// FindAccountByID returns the last committed state of an account.
func (s *Store) FindAccountByID(_ context.Context, accountID int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	acc := row.account
	return &acc, nil
}

// ListAccountsByOwner returns an owner's accounts ordered by id.
func (s *Store) ListAccountsByOwner(_ context.Context, ownerID int64) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make([]domain.Account, 0)
	for _, row := range s.accounts {
		if row.account.OwnerID == ownerID {
			accounts = append(accounts, row.account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountID < accounts[j].AccountID })
	return accounts, nil
}

// AccountNumberExists reports whether accountNumber is already allocated.
func (s *Store) AccountNumberExists(_ context.Context, accountNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accountNumbers[accountNumber]
	return ok, nil
}

// SaveAccount inserts a new account outside of any ledger transaction.
func (s *Store) SaveAccount(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accountNumbers[account.AccountNumber]; ok {
		return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, account.AccountNumber)
	}
	s.nextAccountID++
	account.AccountID = s.nextAccountID
	account.CreatedAt = s.now()
	s.accounts[account.AccountID] = &accountRow{account: *account, lock: make(chan struct{}, 1)}
	s.accountNumbers[account.AccountNumber] = account.AccountID
	return nil
}

// FindAccountByIDForUpdate locks the account row for tx and returns the
// state tx sees, including balances it staged itself.
func (s *Store) FindAccountByIDForUpdate(ctx context.Context, tx portsrepo.Tx, accountID int64) (*domain.Account, error) {
	t, err := s.open(tx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	row, ok := s.accounts[accountID]
	s.mu.Unlock()
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}

	if err := t.lock(ctx, row, accountID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	acc := row.account
	s.mu.Unlock()
	if staged, ok := t.balances[accountID]; ok {
		acc.Balance = staged
	}
	return &acc, nil
}

// UpdateAccountBalanceInTx stages a new balance for a row locked by tx.
func (s *Store) UpdateAccountBalanceInTx(_ context.Context, tx portsrepo.Tx, accountID int64, balance decimal.Decimal) error {
	t, err := s.open(tx)
	if err != nil {
		return err
	}
	if _, ok := t.held[accountID]; !ok {
		return fmt.Errorf("account %d is not locked by this transaction", accountID)
	}
	t.balances[accountID] = balance
	return nil
}
