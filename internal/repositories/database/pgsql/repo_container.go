package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres repositories. Account and
// transaction writes share pgx transactions started by the account repository.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	base := BaseRepository{Pool: dbPool, LockTimeout: lockTimeout}
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool, base),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}
