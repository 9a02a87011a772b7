package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var ten = big.NewInt(10)

// GenerateAccountNumber returns a string of n cryptographically random decimal digits.
// Leading zeros are allowed.
func GenerateAccountNumber(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("account number length must be positive")
	}
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}
