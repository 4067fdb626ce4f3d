package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when a caller does not name one.
const DefaultCurrency = "BRL"

// Transfer amount bounds, in minor units.
const (
	MinAmountCents int64 = 1           // 0.01
	MaxAmountCents int64 = 99999999999 // 999999999.99
)

var (
	ErrAmountOutOfRange = errors.New("amount outside allowed range")
	ErrCurrencyMismatch = errors.New("cannot operate on different currencies")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
)

// Money is an immutable monetary value stored as an integer count of minor
// currency units. All comparison and arithmetic happens on that integer, so
// balances never accumulate floating point drift.
type Money struct {
	cents    int64
	currency string
}

// NewMoney builds a Money from minor units.
func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}

	if currency == "" {
		currency = DefaultCurrency
	}

	return Money{cents: cents, currency: currency}, nil
}

// MoneyFromDecimal converts a decimal value in currency units to Money,
// rounding half-up to the nearest minor unit. Values outside
// [0.01, 999999999.99] are rejected.
func MoneyFromDecimal(value decimal.Decimal, currency string) (Money, error) {
	return MoneyFromDecimalInRange(value, currency, MinAmountCents, MaxAmountCents)
}

// MoneyFromDecimalInRange is MoneyFromDecimal with explicit bounds in minor
// units, for deployments that tune the transfer limits.
func MoneyFromDecimalInRange(value decimal.Decimal, currency string, minCents, maxCents int64) (Money, error) {
	// decimal.Round rounds half away from zero; amounts are non-negative
	// here, so this is round-half-up.
	cents := value.Round(2).Shift(2).IntPart()

	if cents < minCents || cents > maxCents {
		return Money{}, fmt.Errorf("%w: got %s", ErrAmountOutOfRange, value.String())
	}

	return NewMoney(cents, currency)
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	m, _ := NewMoney(0, currency)
	return m
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

// StringFixed formats the amount with exactly two decimal places, the shape
// external services expect.
func (m Money) StringFixed() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) String() string {
	return m.currency + " " + m.StringFixed()
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// Equal reports whether both amount and currency match.
func (m Money) Equal(o Money) bool {
	return m.cents == o.cents && m.currency == o.currency
}

// LessThan compares two amounts of the same currency.
func (m Money) LessThan(o Money) (bool, error) {
	if err := m.assertSameCurrency(o); err != nil {
		return false, err
	}

	return m.cents < o.cents, nil
}

// GreaterThanOrEqual compares two amounts of the same currency.
func (m Money) GreaterThanOrEqual(o Money) (bool, error) {
	if err := m.assertSameCurrency(o); err != nil {
		return false, err
	}

	return m.cents >= o.cents, nil
}

// Add returns the sum of two amounts of the same currency.
func (m Money) Add(o Money) (Money, error) {
	if err := m.assertSameCurrency(o); err != nil {
		return Money{}, err
	}

	return NewMoney(m.cents+o.cents, m.currency)
}

// Sub returns the difference of two amounts of the same currency. A negative
// result is an error: balances never go below zero.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.assertSameCurrency(o); err != nil {
		return Money{}, err
	}

	result := m.cents - o.cents
	if result < 0 {
		return Money{}, ErrNegativeAmount
	}

	return NewMoney(result, m.currency)
}

// Mul scales the amount by an integer factor.
func (m Money) Mul(factor int64) (Money, error) {
	result := m.cents * factor
	if result < 0 {
		return Money{}, ErrNegativeAmount
	}

	return NewMoney(result, m.currency)
}

func (m Money) assertSameCurrency(o Money) error {
	if m.currency != o.currency {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, o.currency)
	}

	return nil
}
