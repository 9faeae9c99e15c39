// Package money holds amounts in integer minor currency units (cents).
// Amounts never pass through floating point.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is an amount in minor currency units.
type Cents int64

// MaxAmount is the largest single amount accepted (the card networks' eight-digit
// unit amount limit, $999,999.99).
const MaxAmount Cents = 99_999_999

var ErrInvalidAmount = errors.New("money: invalid amount")

var maxAmount = decimal.NewFromInt(int64(MaxAmount))

// Times multiplies a unit amount by a quantity.
func (c Cents) Times(quantity int) Cents {
	return c * Cents(quantity)
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount as dollars, e.g. "$129.99".
func (c Cents) String() string {
	d := c.Decimal()
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// ParseDollars converts a major-unit string such as "49.99" or "$5" into cents,
// rounding half away from zero past the second decimal place.
// Negative amounts and amounts above MaxAmount are rejected.
func ParseDollars(s string) (Cents, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	return Cents(cents.IntPart()), nil
}
