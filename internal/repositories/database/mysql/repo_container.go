package mysql

import (
	"time"

	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"gorm.io/gorm"
)

// NewRepositoryProvider wires the MySQL repositories on a shared gorm handle.
func NewRepositoryProvider(db *gorm.DB, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newGormAccountRepository(BaseRepository{DB: db, LockTimeout: lockTimeout}),
		TransactionRepo: newGormTransactionRepository(db),
		UserRepo:        newGormUserRepository(db),
	}
}
