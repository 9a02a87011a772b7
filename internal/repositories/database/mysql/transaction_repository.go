package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
	"gorm.io/gorm"
)

type GormTransactionRepository struct {
	db *gorm.DB
}

func newGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

var _ portsrepo.TransactionRecorder = (*GormTransactionRepository)(nil)

// AppendTransactionInTx inserts a record and fills in its id and creation time.
func (r *GormTransactionRepository) AppendTransactionInTx(ctx context.Context, tx portsrepo.Tx, txn *domain.Transaction) error {
	gtx, err := asGormTx(tx)
	if err != nil {
		return err
	}
	m := mapping.ToModelTransaction(*txn)
	m.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if err := gtx.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to insert %s record for account %d: %w", m.TransactionType, m.AccountID, mapMySQLError(err))
	}
	txn.TransactionID = m.TransactionID
	txn.CreatedAt = m.CreatedAt
	return nil
}

// ListTransactionsByAccountID returns every record of an account, newest first.
func (r *GormTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	var ms []models.Transaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, transaction_id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %d: %w", accountID, err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
