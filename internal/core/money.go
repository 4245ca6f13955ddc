// Package core provides the ledger domain: accounts, transactions, money
// and the derived grouping keys.
//
// This file contains the Money type. Amounts are kept as signed int64 minor
// units (two fractional digits) so that balance arithmetic is exact and can be
// delegated to an integer column increment in the store.
package core

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	// maxCents bounds a single amount so that sums over realistic ledgers stay
	// far from int64 overflow.
	maxCents = int64(1_000_000_000_000_000)

	// MaxBalanceCents bounds a stored account balance. It leaves room for one
	// more maximal amount before int64 overflow.
	MaxBalanceCents = int64(1_000_000_000_000_000_000)

	// Exponent window accepted for parsed decimals, checked before rounding.
	minExponent = -30
	maxExponent = 18
)

type Money struct {
	Cents int64
}

// NewMoneyFromDecimal rounds d half-away-from-zero to two decimals.
func NewMoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsZero() {
		return Money{}, nil
	}
	if exp := d.Exponent(); exp < minExponent || exp > maxExponent {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2)
	if cents.Abs().GreaterThan(decimal.NewFromInt(maxCents)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// ParseMoney parses a signed decimal string. Both "12.34" and "12,34" are
// accepted; the third fractional digit is rounded.
//
// Examples:
//
//	ParseMoney("-100")    -> {-10000}
//	ParseMoney("12,345")  -> {1235}
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return NewMoneyFromDecimal(d)
}

func (m Money) Validate() error {
	if m.Cents > maxCents || m.Cents < -maxCents {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Decimal() decimal.Decimal { return decimal.New(m.Cents, -2) }
func (m Money) Neg() Money               { return Money{Cents: -m.Cents} }
func (m Money) Add(n Money) Money        { return Money{Cents: m.Cents + n.Cents} }

// AddChecked is Add that fails with ErrAmountOutOfRange instead of
// overflowing int64.
func (m Money) AddChecked(n Money) (Money, error) {
	sum := m.Cents + n.Cents
	if (n.Cents > 0 && sum < m.Cents) || (n.Cents < 0 && sum > m.Cents) {
		return Money{}, ErrAmountOutOfRange
	}
	return Money{Cents: sum}, nil
}

// ValidateBalance checks m against the stored balance bound.
func (m Money) ValidateBalance() error {
	if m.Cents > MaxBalanceCents || m.Cents < -MaxBalanceCents {
		return ErrAmountOutOfRange
	}
	return nil
}

func (m Money) Abs() Money {
	if m.Cents < 0 {
		return m.Neg()
	}
	return m
}
func (m Money) IsNegative() bool { return m.Cents < 0 }
func (m Money) IsPositive() bool { return m.Cents > 0 }
func (m Money) IsZero() bool     { return m.Cents == 0 }

// String returns the plain decimal representation, e.g. "-12.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Display formats the amount with the symbol and fraction of currency, e.g.
// "₹1,234.50". Unknown codes fall back to String.
func (m Money) Display(currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return m.String()
	}
	minor := m.Decimal().Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// MarshalJSON renders the amount as a bare JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	v, err := NewMoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
