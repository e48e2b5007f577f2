package utils

import (
	"fmt"
	"math"
)

// Money represents a monetary value in cents. int64 arithmetic keeps line
// revenue exact; the sign always matches the sign of the quantity that
// produced it.
type Money int64

// FromFloat converts a float amount to Money, rounding half away from zero
// to the nearest cent.
func FromFloat(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// Cents creates a Money value from cents
func Cents(cents int64) Money {
	return Money(cents)
}

// ToCents returns the underlying value in cents
func (m Money) ToCents() int64 {
	return int64(m)
}

// ToFloat returns the value as a float64 (display and aggregation only)
func (m Money) ToFloat() float64 {
	return float64(m) / 100
}

// Abs returns the absolute value
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Neg returns the negated value
func (m Money) Neg() Money {
	return -m
}

// IsNegative returns true if the value is below zero
func (m Money) IsNegative() bool {
	return m < 0
}

// IsPositive returns true if the value is above zero
func (m Money) IsPositive() bool {
	return m > 0
}

// String renders the value with exactly two decimals, e.g. "-12.05".
func (m Money) String() string {
	negative := m < 0
	if negative {
		m = -m
	}

	result := fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
	if negative {
		result = "-" + result
	}
	return result
}
