package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	acc   *domain.Account
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewStore(50 * time.Millisecond)
	s.acc = &domain.Account{AccountNumber: "000000000001", AccountType: domain.Savings, Balance: decimal.Zero, OwnerID: 1}
	s.Require().NoError(s.store.SaveAccount(s.ctx, s.acc))
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestSaveAccount_AssignsIDAndRejectsDuplicateNumber() {
	s.Equal(int64(1), s.acc.AccountID)
	s.False(s.acc.CreatedAt.IsZero())

	exists, err := s.store.AccountNumberExists(s.ctx, "000000000001")
	s.Require().NoError(err)
	s.True(exists)

	err = s.store.SaveAccount(s.ctx, &domain.Account{AccountNumber: "000000000001", OwnerID: 2})
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *StoreTestSuite) TestFindAccountByIDForUpdate_Missing() {
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	defer s.store.Rollback(s.ctx, tx)

	_, err = s.store.FindAccountByIDForUpdate(s.ctx, tx, 999)
	s.ErrorIs(err, apperrors.ErrAccountNotFound)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestCommit_PublishesStagedWrites() {
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)

	_, err = s.store.FindAccountByIDForUpdate(s.ctx, tx, s.acc.AccountID)
	s.Require().NoError(err)
	s.Require().NoError(s.store.UpdateAccountBalanceInTx(s.ctx, tx, s.acc.AccountID, decimal.RequireFromString("12.50")))
	rec := &domain.Transaction{Amount: decimal.RequireFromString("12.50"), TransactionType: domain.Deposit, Status: domain.StatusCompleted, AccountID: s.acc.AccountID}
	s.Require().NoError(s.store.AppendTransactionInTx(s.ctx, tx, rec))
	s.Equal(int64(1), rec.TransactionID)

	// not visible before commit
	before, _ := s.store.FindAccountByID(s.ctx, s.acc.AccountID)
	s.True(before.Balance.IsZero())
	history, _ := s.store.ListTransactionsByAccountID(s.ctx, s.acc.AccountID)
	s.Empty(history)

	// the writer sees its own staged balance
	again, err := s.store.FindAccountByIDForUpdate(s.ctx, tx, s.acc.AccountID)
	s.Require().NoError(err)
	s.Equal("12.50", domain.FormatMoney(again.Balance))

	s.Require().NoError(s.store.Commit(s.ctx, tx))
	s.NoError(s.store.Rollback(s.ctx, tx), "rollback after commit is a no-op")

	after, _ := s.store.FindAccountByID(s.ctx, s.acc.AccountID)
	s.Equal("12.50", domain.FormatMoney(after.Balance))
	history, _ = s.store.ListTransactionsByAccountID(s.ctx, s.acc.AccountID)
	s.Len(history, 1)
}

func (s *StoreTestSuite) TestRollback_DiscardsStagedWrites() {
	tx, _ := s.store.Begin(s.ctx)
	_, err := s.store.FindAccountByIDForUpdate(s.ctx, tx, s.acc.AccountID)
	s.Require().NoError(err)
	s.Require().NoError(s.store.UpdateAccountBalanceInTx(s.ctx, tx, s.acc.AccountID, decimal.NewFromInt(99)))
	s.Require().NoError(s.store.AppendTransactionInTx(s.ctx, tx, &domain.Transaction{AccountID: s.acc.AccountID, Amount: decimal.NewFromInt(99)}))
	s.Require().NoError(s.store.Rollback(s.ctx, tx))

	acc, _ := s.store.FindAccountByID(s.ctx, s.acc.AccountID)
	s.True(acc.Balance.IsZero())
	history, _ := s.store.ListTransactionsByAccountID(s.ctx, s.acc.AccountID)
	s.Empty(history)

	s.Error(s.store.Commit(s.ctx, tx), "finished transaction cannot commit")
}

func (s *StoreTestSuite) TestRowLock_BlocksUntilHolderCommits() {
	holder, _ := s.store.Begin(s.ctx)
	_, err := s.store.FindAccountByIDForUpdate(s.ctx, holder, s.acc.AccountID)
	s.Require().NoError(err)
	s.Require().NoError(s.store.UpdateAccountBalanceInTx(s.ctx, holder, s.acc.AccountID, decimal.NewFromInt(7)))

	got := make(chan decimal.Decimal, 1)
	go func() {
		waiter, _ := s.store.Begin(s.ctx)
		defer s.store.Rollback(s.ctx, waiter)
		acc, err := s.store.FindAccountByIDForUpdate(s.ctx, waiter, s.acc.AccountID)
		if err != nil {
			close(got)
			return
		}
		got <- acc.Balance
	}()

	time.Sleep(10 * time.Millisecond)
	s.Require().NoError(s.store.Commit(s.ctx, holder))

	select {
	case balance, ok := <-got:
		s.Require().True(ok, "waiter failed to acquire the lock")
		s.Equal("7.00", domain.FormatMoney(balance), "waiter reads the committed balance")
	case <-time.After(time.Second):
		s.Fail("waiter never acquired the lock")
	}
}

func (s *StoreTestSuite) TestRowLock_TimeoutIsContention() {
	holder, _ := s.store.Begin(s.ctx)
	defer s.store.Rollback(s.ctx, holder)
	_, err := s.store.FindAccountByIDForUpdate(s.ctx, holder, s.acc.AccountID)
	s.Require().NoError(err)

	waiter, _ := s.store.Begin(s.ctx)
	defer s.store.Rollback(s.ctx, waiter)
	_, err = s.store.FindAccountByIDForUpdate(s.ctx, waiter, s.acc.AccountID)
	s.ErrorIs(err, apperrors.ErrContention)
}

func (s *StoreTestSuite) TestRowLock_CancelledWaitIsContention() {
	holder, _ := s.store.Begin(s.ctx)
	defer s.store.Rollback(s.ctx, holder)
	_, err := s.store.FindAccountByIDForUpdate(s.ctx, holder, s.acc.AccountID)
	s.Require().NoError(err)

	waiter, _ := s.store.Begin(s.ctx)
	defer s.store.Rollback(s.ctx, waiter)
	cancelled, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err = s.store.FindAccountByIDForUpdate(cancelled, waiter, s.acc.AccountID)
	s.ErrorIs(err, apperrors.ErrContention)
	s.ErrorIs(err, context.Canceled)
}

func (s *StoreTestSuite) TestUpdateWithoutLockFails() {
	tx, _ := s.store.Begin(s.ctx)
	defer s.store.Rollback(s.ctx, tx)
	s.Error(s.store.UpdateAccountBalanceInTx(s.ctx, tx, s.acc.AccountID, decimal.NewFromInt(1)))
}

func (s *StoreTestSuite) TestForeignTransactionHandle() {
	other := NewStore(0)
	tx, _ := other.Begin(s.ctx)
	_, err := s.store.FindAccountByIDForUpdate(s.ctx, tx, s.acc.AccountID)
	s.Error(err)
	s.Error(s.store.Rollback(s.ctx, tx))
}

func (s *StoreTestSuite) TestHistory_NewestFirstWithIDTieBreak() {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return fixed }

	tx, _ := s.store.Begin(s.ctx)
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.AppendTransactionInTx(s.ctx, tx, &domain.Transaction{AccountID: s.acc.AccountID, Amount: decimal.NewFromInt(int64(i + 1))}))
	}
	s.Require().NoError(s.store.Commit(s.ctx, tx))

	history, err := s.store.ListTransactionsByAccountID(s.ctx, s.acc.AccountID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal(int64(3), history[0].TransactionID)
	s.Equal(int64(2), history[1].TransactionID)
	s.Equal(int64(1), history[2].TransactionID)

	none, err := s.store.ListTransactionsByAccountID(s.ctx, 12345)
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *StoreTestSuite) TestUsers() {
	u := &domain.User{FullName: "Ada", Email: "ada@example.com", PasswordHash: "x", IsActive: true}
	s.Require().NoError(s.store.SaveUser(s.ctx, u))
	s.Equal(int64(1), u.UserID)

	found, err := s.store.FindUserByEmail(s.ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Equal(u.UserID, found.UserID)

	s.ErrorIs(s.store.SaveUser(s.ctx, &domain.User{Email: "ada@example.com"}), apperrors.ErrDuplicate)

	_, err = s.store.FindUserByID(s.ctx, 42)
	s.ErrorIs(err, apperrors.ErrNotFound)
}
