// Package money wraps exact decimal amounts used for balances and stakes.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal quantity of play currency.
// It encodes to JSON as a bare number and accepts either a number or a
// numeric string when decoding.
type Amount struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{decimal.Zero}

// Parsed amounts fit NUMERIC(20,4): at most 16 integer digits and 4 decimals.
const (
	MaxScale         = 4
	MaxIntegerDigits = 16
)

// ErrOutOfRange is returned for amounts too large or too precise to store.
var ErrOutOfRange = errors.New("amount out of range")

var upperBound = decimal.New(1, MaxIntegerDigits)

// bounded rejects out of range values. The exponent is checked first so that
// no later step has to expand an extreme exponent.
func bounded(d decimal.Decimal) (Amount, error) {
	if d.IsZero() {
		return Zero, nil
	}
	exp := d.Exponent()
	if exp > MaxIntegerDigits || exp < -64 {
		return Zero, ErrOutOfRange
	}
	if d.Abs().GreaterThanOrEqual(upperBound) || !d.Equal(d.Truncate(MaxScale)) {
		return Zero, ErrOutOfRange
	}
	return Amount{d}, nil
}

// New builds an Amount from a whole number of units.
func New(units int64) Amount {
	return Amount{decimal.NewFromInt(units)}
}

// Check reports ErrOutOfRange for amounts a ledger cannot store exactly.
func (a Amount) Check() error {
	_, err := bounded(a.Decimal)
	return err
}

// FromFloat builds an Amount from a float; prefer Parse for user input.
func FromFloat(v float64) Amount {
	return Amount{decimal.NewFromFloat(v)}
}

// Parse reads an amount such as "30" or "12.50".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	a, err := bounded(d)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return a, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return Amount{a.Decimal.Add(b.Decimal)} }

func (a Amount) Sub(b Amount) Amount { return Amount{a.Decimal.Sub(b.Decimal)} }

func (a Amount) GreaterThan(b Amount) bool { return a.Decimal.GreaterThan(b.Decimal) }

func (a Amount) LessThan(b Amount) bool { return a.Decimal.LessThan(b.Decimal) }

func (a Amount) Equal(b Amount) bool { return a.Decimal.Equal(b.Decimal) }

// Key is a canonical string form; equal amounts share a key ("30" and "30.00").
func (a Amount) Key() string {
	return a.Decimal.String()
}

// MarshalJSON writes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts 12.5 as well as "12.5".
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Zero
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	v, err := bounded(d)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = v
	return nil
}
