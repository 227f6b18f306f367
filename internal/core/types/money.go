// Package types provides common type aliases and monetary utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors in the
// payment-allocation and settlement arithmetic.
type Money = decimal.Decimal

// Epsilon is the rounding tolerance for payment amounts. A payment may
// exceed the pending balance by at most this much before it is rejected.
var Epsilon = decimal.NewFromFloat(0.01)

// NewMoney creates a Money value from a float.
// Prefer NewMoneyFromString for exact literals.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MinMoney returns the smaller of two amounts.
func MinMoney(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

// WholeUnits returns how many whole units of unitPrice are covered by paid.
// Returns 0 when unitPrice is not positive.
func WholeUnits(paid, unitPrice Money) int {
	if !unitPrice.IsPositive() {
		return 0
	}
	return int(paid.Div(unitPrice).Floor().IntPart())
}
