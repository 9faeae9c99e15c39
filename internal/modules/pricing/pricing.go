// Package pricing turns cart lines into a priced order using integer cent
// arithmetic only.
package pricing

import (
	"fmt"

	"github.com/georgemunganga/novashop/internal/money"
)

// Rate is an exact rational rate, Num/Den.
type Rate struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// CommissionRate is the platform fee applied on top of the subtotal (1%).
var CommissionRate = Rate{Num: 1, Den: 100}

func (r Rate) String() string {
	if r.Den != 0 && (r.Num*100)%r.Den == 0 {
		return fmt.Sprintf("%d%%", r.Num*100/r.Den)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Apply returns amount×rate rounded half up to the nearest cent.
// Negative amounts round symmetrically (half away from zero).
func (r Rate) Apply(amount money.Cents) money.Cents {
	if amount < 0 {
		return -r.Apply(-amount)
	}
	a := int64(amount)
	return money.Cents((2*a*r.Num + r.Den) / (2 * r.Den))
}

// Line is anything that can be priced as unit price × units.
type Line interface {
	UnitPrice() money.Cents
	Units() int
}

// PricedOrder is derived on demand and never persisted.
type PricedOrder struct {
	Subtotal       money.Cents `json:"subtotal"`
	CommissionRate Rate        `json:"commission_rate"`
	Commission     money.Cents `json:"commission"`
	Total          money.Cents `json:"total"`
}

// Subtotal is the exact sum of price × quantity.
func Subtotal[L Line](lines []L) money.Cents {
	var sum money.Cents
	for _, l := range lines {
		sum += l.UnitPrice().Times(l.Units())
	}
	return sum
}

// Commission is the platform fee for a subtotal.
func Commission(subtotal money.Cents) money.Cents {
	return CommissionRate.Apply(subtotal)
}

// Price computes subtotal, commission and total for a cart snapshot.
func Price[L Line](lines []L) PricedOrder {
	subtotal := Subtotal(lines)
	commission := Commission(subtotal)
	return PricedOrder{
		Subtotal:       subtotal,
		CommissionRate: CommissionRate,
		Commission:     commission,
		Total:          subtotal + commission,
	}
}
