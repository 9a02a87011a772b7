package accounting

import (
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Credit returns balance+amount. A result that no longer fits the balance
// column is reported as an invalid amount.
func Credit(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	next := balance.Add(amount)
	if next.GreaterThan(domain.MaxBalance) {
		return balance, fmt.Errorf("%w: resulting balance exceeds %s", apperrors.ErrInvalidAmount, domain.FormatMoney(domain.MaxBalance))
	}
	return next, nil
}

// Debit returns balance-amount, or ErrInsufficientFunds when that would go below zero.
func Debit(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	if balance.LessThan(amount) {
		return balance, apperrors.ErrInsufficientFunds
	}
	return balance.Sub(amount), nil
}
