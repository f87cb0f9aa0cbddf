// Package money centralizes decimal arithmetic for prices and order totals.
// All storefront amounts are held as shopspring decimals and rendered in the
// display currency with a fixed number of places; float64 never touches money.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount wraps a decimal value so callers cannot accidentally mix raw decimals
// with monetary quantities.
type Amount struct {
	value decimal.Decimal
}

// Zero is the additive identity.
var Zero = Amount{value: decimal.Zero}

// New builds an Amount from a decimal.
func New(d decimal.Decimal) Amount {
	return Amount{value: d}
}

// Parse builds an Amount from its string form ("12.500"). Rejects negatives.
func Parse(raw string) (Amount, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("amount %q must not be negative", raw)
	}
	return Amount{value: d}, nil
}

// MustParse is Parse for trusted literals, panicking on failure.
func MustParse(raw string) Amount {
	a, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value.Sub(b.value)}
}

// MulInt multiplies by an integer quantity.
func (a Amount) MulInt(qty int64) Amount {
	return Amount{value: a.value.Mul(decimal.NewFromInt(qty))}
}

// Equal reports numeric equality independent of exponent.
func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

// LessThan reports a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.value.LessThan(b.value)
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// IsNegative reports whether the amount dropped below zero.
func (a Amount) IsNegative() bool {
	return a.value.IsNegative()
}

// Decimal exposes the underlying decimal for persistence.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// StringFixed renders with the given number of decimal places, half-up.
func (a Amount) StringFixed(places int) string {
	return a.value.StringFixed(int32(places))
}

// String renders the amount without forcing an exponent.
func (a Amount) String() string {
	return a.value.String()
}

// Converter translates between the upstream USD catalog currency and the
// display currency using a fixed exchange rate from config.
type Converter struct {
	rate   decimal.Decimal
	places int32
}

// NewConverter builds a Converter from the configured rate string. The rate is
// display-currency units per one USD and must be positive.
func NewConverter(rate string, places int) (*Converter, error) {
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("parse exchange rate %q: %w", rate, err)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("exchange rate %q must be positive", rate)
	}
	return &Converter{rate: d, places: int32(places)}, nil
}

// FromUSD converts a USD amount into the display currency, rounded half-up to
// the configured number of places.
func (c *Converter) FromUSD(usd Amount) Amount {
	return Amount{value: usd.value.Mul(c.rate).Round(c.places)}
}

// Round snaps an amount to the configured precision.
func (c *Converter) Round(a Amount) Amount {
	return Amount{value: a.value.Round(c.places)}
}

// Places exposes the configured precision for response formatting.
func (c *Converter) Places() int {
	return int(c.places)
}
