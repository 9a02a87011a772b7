package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, account_number, account_type, balance, owner_id, created_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool, base BaseRepository) *PgxAccountRepository {
	base.Pool = pool
	return &PgxAccountRepository{BaseRepository: base}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	if err := row.Scan(&m.AccountID, &m.AccountNumber, &m.AccountType, &m.Balance, &m.OwnerID, &m.CreatedAt); err != nil {
		return nil, err
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID without locking it.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %d: %w", accountID, err)
	}
	return acc, nil
}

// ListAccountsByOwner retrieves every account owned by ownerID, oldest first.
func (r *PgxAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID int64) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY account_id;`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for owner %d: %w", ownerID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts for owner %d: %w", ownerID, err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// AccountNumberExists reports whether an account number is already allocated.
func (r *PgxAccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1);`, accountNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account number: %w", err)
	}
	return exists, nil
}

// SaveAccount inserts a new account and fills in its id and creation time.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	m := mapping.ToModelAccount(*account)
	query := `
		INSERT INTO accounts (account_number, account_type, balance, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING account_id, created_at;
	`
	err := r.Pool.QueryRow(ctx, query, m.AccountNumber, m.AccountType, m.Balance, m.OwnerID).
		Scan(&account.AccountID, &account.CreatedAt)
	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// FindAccountByIDForUpdate selects the account row with FOR UPDATE, holding
// its lock until tx ends.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx portsrepo.Tx, accountID int64) (*domain.Account, error) {
	pgxTx, err := asPgxTx(tx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	acc, err := scanAccount(pgxTx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account %d: %w", accountID, mapPgError(err))
	}
	return acc, nil
}

// UpdateAccountBalanceInTx writes a new balance for a row locked by tx.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx portsrepo.Tx, accountID int64, balance decimal.Decimal) error {
	pgxTx, err := asPgxTx(tx)
	if err != nil {
		return err
	}
	tag, err := pgxTx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE account_id = $2;`, balance, accountID)
	if err != nil {
		if isPgCode(err, pgCheckViolation) {
			return fmt.Errorf("%w: account %d", apperrors.ErrInsufficientFunds, accountID)
		}
		return fmt.Errorf("failed to update balance of account %d: %w", accountID, mapPgError(err))
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: id %d", apperrors.ErrAccountNotFound, accountID)
	}
	return nil
}
