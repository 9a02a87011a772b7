package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
)

// AppendTransactionInTx stages a record. Its id and timestamp are assigned now,
// it becomes visible on commit.
func (s *Store) AppendTransactionInTx(_ context.Context, tx portsrepo.Tx, txn *domain.Transaction) error {
	t, err := s.open(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.nextRecordID++
	txn.TransactionID = s.nextRecordID
	txn.CreatedAt = s.now()
	s.mu.Unlock()

	rec := *txn
	if txn.Description != nil {
		d := *txn.Description
		rec.Description = &d
	}
	t.records = append(t.records, rec)
	return nil
}

// ListTransactionsByAccountID returns committed records, newest first.
func (s *Store) ListTransactionsByAccountID(_ context.Context, accountID int64) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.recordsByAcct[accountID]
	out := make([]domain.Transaction, 0, len(idx))
	for i := len(idx) - 1; i >= 0; i-- {
		out = append(out, s.records[idx[i]])
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(txns []domain.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionID > b.TransactionID
	})
}
