package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountNotFoundIsNotFound(t *testing.T) {
	wrapped := fmt.Errorf("%w: id 7", ErrAccountNotFound)
	assert.True(t, errors.Is(wrapped, ErrAccountNotFound))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrAccountNotFound))
}

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError(500, "failed to commit transaction", ErrContention)
	assert.ErrorIs(t, err, ErrContention)
	assert.Equal(t, "failed to commit transaction: account is busy, please retry", err.Error())
	assert.Equal(t, "bare", NewAppError(400, "bare", nil).Error())
}
