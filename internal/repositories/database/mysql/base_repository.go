package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL error numbers the ledger reacts to.
const (
	errDupEntry             = 1062
	errLockWaitTimeout      = 1205
	errLockDeadlock         = 1213
	errCheckConstraintFails = 3819
)

// BaseRepository provides transaction handling shared by the gorm repositories.
type BaseRepository struct {
	DB          *gorm.DB
	LockTimeout time.Duration
}

// Begin opens a gorm transaction. InnoDB only accepts whole seconds for
// lock waits, so LockTimeout is rounded up to at least one second.
func (r *BaseRepository) Begin(ctx context.Context) (portsrepo.Tx, error) {
	tx := r.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", tx.Error)
	}
	if r.LockTimeout > 0 {
		seconds := int64((r.LockTimeout + time.Second - 1) / time.Second)
		if err := tx.Exec("SET SESSION innodb_lock_wait_timeout = ?", seconds).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.NewAppError(500, "failed to set lock timeout", err)
		}
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx portsrepo.Tx) error {
	gtx, err := asGormTx(tx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	if err := gtx.Commit().Error; err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", mapMySQLError(err))
	}
	return nil
}

// Rollback rolls back a transaction. Rolling back a finished transaction is a no-op.
func (r *BaseRepository) Rollback(ctx context.Context, tx portsrepo.Tx) error {
	gtx, err := asGormTx(tx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	if err := gtx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

func asGormTx(tx portsrepo.Tx) (*gorm.DB, error) {
	gtx, ok := tx.(*gorm.DB)
	if !ok || gtx == nil {
		return nil, fmt.Errorf("transaction handle %T is not a *gorm.DB", tx)
	}
	return gtx, nil
}

// mapMySQLError translates lock wait timeouts, deadlocks and abandoned
// waits into apperrors.ErrContention and a failed balance CHECK into
// apperrors.ErrInsufficientFunds.
func mapMySQLError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", apperrors.ErrContention, err)
	}
	switch mysqlErrorNumber(err) {
	case errLockWaitTimeout, errLockDeadlock:
		return fmt.Errorf("%w: %v", apperrors.ErrContention, err)
	case errCheckConstraintFails:
		return fmt.Errorf("%w: %v", apperrors.ErrInsufficientFunds, err)
	}
	return err
}

func mysqlErrorNumber(err error) uint16 {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}
