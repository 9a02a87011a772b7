// Package memory is a process-local persistence substrate. Account rows carry
// exclusive locks held until the owning transaction commits or rolls back,
// matching SELECT ... FOR UPDATE semantics of the SQL stores.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

var errForeignTx = errors.New("transaction handle does not belong to this store")

type accountRow struct {
	account domain.Account
	lock    chan struct{} // capacity 1; a token in the channel means locked
}

// Store keeps accounts, transaction records and users in memory.
type Store struct {
	mu sync.Mutex

	accounts       map[int64]*accountRow
	accountNumbers map[string]int64
	records        []domain.Transaction
	recordsByAcct  map[int64][]int
	users          map[int64]*domain.User
	emails         map[string]int64

	nextAccountID int64
	nextRecordID  int64
	nextUserID    int64

	lockTimeout time.Duration
	now         func() time.Time
}

// NewStore creates an empty store. A positive lockTimeout bounds how long
// FindAccountByIDForUpdate waits for a row lock before failing with
// apperrors.ErrContention; zero waits until ctx is done.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		accounts:       make(map[int64]*accountRow),
		accountNumbers: make(map[string]int64),
		recordsByAcct:  make(map[int64][]int),
		users:          make(map[int64]*domain.User),
		emails:         make(map[string]int64),
		lockTimeout:    lockTimeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     store,
		TransactionRepo: store,
		UserRepo:        store,
	}
}

var (
	_ portsrepo.AccountRepositoryWithTx = (*Store)(nil)
	_ portsrepo.TransactionRecorder     = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade    = (*Store)(nil)
)

// memTx is the store's transaction handle. Writes are staged and only
// become visible on Commit.
type memTx struct {
	store    *Store
	held     map[int64]*accountRow
	balances map[int64]decimal.Decimal
	records  []domain.Transaction
	done     bool
}

// Begin starts a new transaction.
func (s *Store) Begin(ctx context.Context) (portsrepo.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return &memTx{
		store:    s,
		held:     make(map[int64]*accountRow),
		balances: make(map[int64]decimal.Decimal),
	}, nil
}

// Commit applies staged balances and records, then releases every row lock.
func (s *Store) Commit(_ context.Context, tx portsrepo.Tx) error {
	t, err := s.open(tx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}

	s.mu.Lock()
	for id, balance := range t.balances {
		t.held[id].account.Balance = balance
	}
	for _, rec := range t.records {
		s.records = append(s.records, rec)
		s.recordsByAcct[rec.AccountID] = append(s.recordsByAcct[rec.AccountID], len(s.records)-1)
	}
	s.mu.Unlock()

	t.finish()
	return nil
}

// Rollback discards staged writes and releases every row lock.
// Rolling back a finished transaction is a no-op.
func (s *Store) Rollback(_ context.Context, tx portsrepo.Tx) error {
	t, ok := tx.(*memTx)
	if !ok || t.store != s {
		return apperrors.NewAppError(500, "failed to rollback transaction", errForeignTx)
	}
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (s *Store) open(tx portsrepo.Tx) (*memTx, error) {
	t, ok := tx.(*memTx)
	if !ok || t.store != s {
		return nil, errForeignTx
	}
	if t.done {
		return nil, errors.New("transaction already finished")
	}
	return t, nil
}

func (t *memTx) finish() {
	t.done = true
	for _, row := range t.held {
		<-row.lock
	}
	t.held = nil
	t.balances = nil
	t.records = nil
}

// lock acquires the row lock for t, or returns immediately when t already holds it.
func (t *memTx) lock(ctx context.Context, row *accountRow, accountID int64) error {
	if _, ok := t.held[accountID]; ok {
		return nil
	}

	var timeout <-chan time.Time
	if t.store.lockTimeout > 0 {
		timer := time.NewTimer(t.store.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case row.lock <- struct{}{}:
		t.held[accountID] = row
		return nil
	case <-timeout:
		return fmt.Errorf("%w: lock wait on account %d exceeded %s", apperrors.ErrContention, accountID, t.store.lockTimeout)
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for lock on account %d: %w", apperrors.ErrContention, accountID, ctx.Err())
	}
}
