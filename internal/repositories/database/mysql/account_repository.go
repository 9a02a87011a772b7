package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormAccountRepository struct {
	BaseRepository
}

func newGormAccountRepository(base BaseRepository) *GormAccountRepository {
	return &GormAccountRepository{BaseRepository: base}
}

var _ portsrepo.AccountRepositoryWithTx = (*GormAccountRepository)(nil)

// FindAccountByID retrieves an account by its ID without locking it.
func (r *GormAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	var m models.Account
	if err := r.DB.WithContext(ctx).First(&m, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %d: %w", accountID, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// ListAccountsByOwner retrieves every account owned by ownerID, oldest first.
func (r *GormAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID int64) ([]domain.Account, error) {
	var ms []models.Account
	if err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("account_id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts for owner %d: %w", ownerID, err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// AccountNumberExists reports whether an account number is already allocated.
func (r *GormAccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Account{}).Where("account_number = ?", accountNumber).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check account number: %w", err)
	}
	return n > 0, nil
}

// SaveAccount inserts a new account and fills in its id and creation time.
func (r *GormAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	m := mapping.ToModelAccount(*account)
	m.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if err := r.DB.WithContext(ctx).Create(&m).Error; err != nil {
		if mysqlErrorNumber(err) == errDupEntry {
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	account.AccountID = m.AccountID
	account.CreatedAt = m.CreatedAt
	return nil
}

// FindAccountByIDForUpdate selects the account row with FOR UPDATE, holding
// its lock until tx ends.
func (r *GormAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx portsrepo.Tx, accountID int64) (*domain.Account, error) {
	gtx, err := asGormTx(tx)
	if err != nil {
		return nil, err
	}
	var m models.Account
	err = gtx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "account_id = ?", accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account %d: %w", accountID, mapMySQLError(err))
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// UpdateAccountBalanceInTx writes a new balance for a row locked by tx.
// MySQL reports zero affected rows when the value is unchanged, so the
// row count is not checked; the row lock already proves existence.
func (r *GormAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx portsrepo.Tx, accountID int64, balance decimal.Decimal) error {
	gtx, err := asGormTx(tx)
	if err != nil {
		return err
	}
	err = gtx.WithContext(ctx).
		Model(&models.Account{}).
		Where("account_id = ?", accountID).
		Update("balance", balance).Error
	if err != nil {
		return fmt.Errorf("failed to update balance of account %d: %w", accountID, mapMySQLError(err))
	}
	return nil
}
