package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	for _, code := range []string{pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure} {
		err := mapPgError(fmt.Errorf("query: %w", &pgconn.PgError{Code: code, Message: "busy"}))
		assert.ErrorIs(t, err, apperrors.ErrContention, code)
	}

	err := mapPgError(context.DeadlineExceeded)
	assert.ErrorIs(t, err, apperrors.ErrContention)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unique := &pgconn.PgError{Code: pgUniqueViolation}
	assert.Equal(t, error(unique), mapPgError(unique))

	other := errors.New("boom")
	assert.Same(t, other, mapPgError(other))
}

func TestIsPgCode(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgCheckViolation})
	assert.True(t, isPgCode(err, pgCheckViolation))
	assert.False(t, isPgCode(err, pgUniqueViolation))
	assert.False(t, isPgCode(errors.New("plain"), pgCheckViolation))
}

func TestAsPgxTx_RejectsForeignHandles(t *testing.T) {
	_, err := asPgxTx(struct{}{})
	assert.Error(t, err)
}
