// Package money provides an exact decimal currency type.
//
// Every persisted or displayed amount is rounded to exactly two fractional
// digits using half-away-from-zero semantics. Arithmetic between two already
// rounded values may itself be re-rounded; the rounding mode is part of the
// contract, not an implementation detail.
package money

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in the invoice currency.
type Money struct {
	d decimal.Decimal
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{}
}

// FromString parses a decimal string such as "120.50".
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{d: d}, nil
}

// FromFloat converts a float. Only intended for literals in tests and
// boundary code; persisted values round-trip through strings.
func FromFloat(f float64) Money {
	return Money{d: decimal.NewFromFloat(f)}
}

// FromDecimal wraps a raw decimal.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// Lenient parses a decimal string, degrading to zero on malformed input.
// Renderers use it so a corrupt stored amount never aborts a document.
func Lenient(s string) Money {
	m, err := FromString(s)
	if err != nil {
		return Money{}
	}
	return m
}

// Round rounds to two fractional digits, half away from zero.
func (m Money) Round() Money {
	return Money{d: m.d.Round(2)}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

// Mul returns m * o.
func (m Money) Mul(o Money) Money {
	return Money{d: m.d.Mul(o.d)}
}

// MulInt returns m * n.
func (m Money) MulInt(n int64) Money {
	return Money{d: m.d.Mul(decimal.NewFromInt(n))}
}

// Div returns m / o at the library's default division precision.
func (m Money) Div(o Money) Money {
	return Money{d: m.d.Div(o.d)}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// IsZero reports whether the amount equals zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// Equal reports numeric equality regardless of exponent.
func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.d.StringFixed(2)
}

// Format renders a display amount such as "$1,202.50" or "-$12.00".
func (m Money) Format() string {
	fixed := m.d.Round(2).Abs().StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	grouped := groupThousands(parts[0])

	out := "$" + grouped + "." + parts[1]
	if m.d.Round(2).IsNegative() {
		return "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// MarshalJSON renders the amount as a fixed two-decimal string, matching the
// API's persisted representation.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		m.d = decimal.Decimal{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	m.d = d
	return nil
}

// Value implements driver.Valuer, storing the fixed two-decimal string.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		m.d = decimal.Decimal{}
		return nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		m.d = d
		return nil
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return err
		}
		m.d = d
		return nil
	case int64:
		m.d = decimal.NewFromInt(v)
		return nil
	case float64:
		m.d = decimal.NewFromFloat(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into money.Money", value)
	}
}
