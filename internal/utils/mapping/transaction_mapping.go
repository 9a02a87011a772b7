package mapping

import (
	"database/sql"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	var desc sql.NullString
	if d.Description != nil {
		desc = sql.NullString{String: *d.Description, Valid: true}
	}
	return models.Transaction{
		TransactionID:   d.TransactionID,
		Amount:          d.Amount,
		TransactionType: string(d.TransactionType),
		Status:          string(d.Status),
		Description:     desc,
		AccountID:       d.AccountID,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	var desc *string
	if m.Description.Valid {
		s := m.Description.String
		desc = &s
	}
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		Amount:          m.Amount,
		TransactionType: domain.TransactionType(m.TransactionType),
		Status:          domain.TransactionStatus(m.Status),
		Description:     desc,
		AccountID:       m.AccountID,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
