package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{pool: pool}
}

var _ portsrepo.TransactionRecorder = (*PgxTransactionRepository)(nil)

// AppendTransactionInTx inserts a record and fills in its id and creation time.
func (r *PgxTransactionRepository) AppendTransactionInTx(ctx context.Context, tx portsrepo.Tx, txn *domain.Transaction) error {
	pgxTx, err := asPgxTx(tx)
	if err != nil {
		return err
	}
	m := mapping.ToModelTransaction(*txn)
	query := `
		INSERT INTO transactions (amount, transaction_type, status, description, account_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING transaction_id, created_at;
	`
	err = pgxTx.QueryRow(ctx, query, m.Amount, m.TransactionType, m.Status, m.Description, m.AccountID).
		Scan(&txn.TransactionID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert %s record for account %d: %w", m.TransactionType, m.AccountID, mapPgError(err))
	}
	return nil
}

// ListTransactionsByAccountID returns every record of an account, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, amount, transaction_type, status, description, account_id, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, transaction_id DESC;
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %d: %w", accountID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions for account %d: %w", accountID, err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
