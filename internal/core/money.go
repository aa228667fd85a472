// Package core provides money parsing and handling utilities.
//
// Amounts are fixed-point decimals with exactly two fractional digits. They are
// parsed from strings, stored as integer cents and rendered back as strings so
// binary floating point never touches a balance.
package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmountCents bounds any single amount or balance (one hundred billion).
const MaxAmountCents int64 = 100_000_000_000_00

var (
	unsignedAmountPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)
	signedAmountPattern   = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)
)

// Money is a monetary value rounded to cents.
type Money struct {
	Amount decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{Amount: decimal.Zero}

// NewMoneyFromCents builds a Money from an integer number of cents.
func NewMoneyFromCents(cents int64) Money {
	return Money{Amount: decimal.New(cents, -2)}
}

// MustParseMoney parses a signed amount and panics on error. Used for fixtures.
func MustParseMoney(s string) Money {
	m, err := ParseSignedAmount(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseAmount converts a non-negative decimal string to Money with half-up
// rounding on the third fractional digit.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,345") -> 12.35
//	ParseAmount("-1")     -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = normalizeAmount(s)
	if !unsignedAmountPattern.MatchString(s) {
		return Money{}, ErrInvalidAmount
	}
	return fromString(s, ErrInvalidAmount)
}

// ParseSignedAmount is ParseAmount that also accepts a leading minus sign.
// Opening balances of credit accounts are typically negative.
func ParseSignedAmount(s string) (Money, error) {
	s = normalizeAmount(s)
	if !signedAmountPattern.MatchString(s) {
		return Money{}, ErrInvalidBalance
	}
	return fromString(s, ErrInvalidBalance)
}

func normalizeAmount(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

func fromString(s string, kind error) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, kind
	}
	m := Money{Amount: d.Round(2)}
	if c := m.Cents(); c > MaxAmountCents || c < -MaxAmountCents {
		return Money{}, kind
	}
	return m, nil
}

// Cents returns the amount as integer cents.
func (m Money) Cents() int64 {
	return m.Amount.Shift(2).Round(0).IntPart()
}

// Add returns m + o rounded to cents.
func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount.Add(o.Amount).Round(2)}
}

// Sub returns m - o rounded to cents.
func (m Money) Sub(o Money) Money {
	return Money{Amount: m.Amount.Sub(o.Amount).Round(2)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg()}
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// Cmp compares m and o like decimal.Decimal.Cmp.
func (m Money) Cmp(o Money) int { return m.Amount.Cmp(o.Amount) }

// Equal reports whether both amounts are the same number of cents.
func (m Money) Equal(o Money) bool { return m.Cents() == o.Cents() }

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Amount.StringFixed(2)
}

// Float64 returns the amount as a float for display-only consumers.
// Use Cents for calculations.
func (m Money) Float64() float64 {
	f, _ := m.Amount.Float64()
	return f
}

// MarshalJSON encodes the amount as a "0.00" string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := ParseSignedAmount(raw)
	if err != nil {
		return fmt.Errorf("decode money %q: %w", raw, err)
	}
	*m = parsed
	return nil
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
