package util

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountToCent converts a decimal amount to cents. The amount must be
// positive and carry at most two decimal places.
func AmountToCent(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", amount)
	}
	cent := amount.Shift(2)
	if !cent.IsInteger() {
		return 0, fmt.Errorf("amount has more than two decimal places: %s", amount)
	}
	return cent.IntPart(), nil
}

// CentToAmount formats cents as a two-decimal string, e.g. 1234 -> "12.34".
func CentToAmount(cent int64) string {
	return decimal.New(cent, -2).StringFixed(2)
}
