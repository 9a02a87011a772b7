package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapMySQLError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"lock wait timeout", &mysqldriver.MySQLError{Number: errLockWaitTimeout}, apperrors.ErrContention},
		{"deadlock", fmt.Errorf("wrapped: %w", &mysqldriver.MySQLError{Number: errLockDeadlock}), apperrors.ErrContention},
		{"check constraint", &mysqldriver.MySQLError{Number: errCheckConstraintFails}, apperrors.ErrInsufficientFunds},
		{"cancelled wait", context.Canceled, apperrors.ErrContention},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapMySQLError(tt.err), tt.want)
		})
	}

	other := errors.New("boom")
	assert.Same(t, other, mapMySQLError(other))
	dup := &mysqldriver.MySQLError{Number: errDupEntry}
	assert.Equal(t, error(dup), mapMySQLError(dup))
}

func TestAsGormTx_RejectsForeignHandles(t *testing.T) {
	_, err := asGormTx("not a tx")
	assert.Error(t, err)

	var nilTx *gorm.DB
	_, err = asGormTx(nilTx)
	assert.Error(t, err)
}
