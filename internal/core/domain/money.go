package domain

import "github.com/shopspring/decimal"

// MoneyScale is the fixed number of fractional digits for every amount and balance.
const MoneyScale int32 = 2

// MaxBalance is the largest value a NUMERIC(15,2) column can hold.
var MaxBalance = decimal.RequireFromString("9999999999999.99")

// IsValidAmount reports whether amount is strictly positive, carries no more
// than MoneyScale fractional digits and does not exceed MaxBalance.
func IsValidAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return false
	}
	return amount.LessThanOrEqual(MaxBalance)
}

// FormatMoney renders an amount with exactly MoneyScale fractional digits.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyScale)
}
