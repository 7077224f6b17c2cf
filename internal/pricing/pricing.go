// Package pricing derives cart totals. Sums are exact; rounding to cents only
// happens when a value is rendered.
package pricing

import (
	"strings"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat 8.5% sales tax.
var DefaultTaxRate = decimal.RequireFromString("0.085")

type Totals struct {
	ItemCount int
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

type Engine struct {
	rate decimal.Decimal
}

func New(rate decimal.Decimal) Engine {
	return Engine{rate: rate}
}

func (e Engine) Rate() decimal.Decimal { return e.rate }

// Compute is pure. Negative prices or quantities are the caller's bug.
func (e Engine) Compute(items []domain.LineItem) Totals {
	t := Totals{Subtotal: decimal.Zero}
	for _, it := range items {
		t.ItemCount += it.Quantity
		t.Subtotal = t.Subtotal.Add(it.LineTotal())
	}
	t.Tax = t.Subtotal.Mul(e.rate)
	t.Total = t.Subtotal.Add(t.Tax)
	return t
}

// Round rounds to cents, half away from zero: 27.125 becomes 27.13.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatUSD renders d as "$1,234.57" or "-$0.50".
func FormatUSD(d decimal.Decimal) string {
	r := Round(d)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Neg()
	}

	whole, frac, _ := strings.Cut(r.StringFixed(2), ".")
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + "$" + b.String() + "." + frac
}

// Display is Totals as shown to a shopper.
type Display struct {
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
}

func (t Totals) Display() Display {
	return Display{
		ItemCount: t.ItemCount,
		Subtotal:  FormatUSD(t.Subtotal),
		Tax:       FormatUSD(t.Tax),
		Total:     FormatUSD(t.Total),
	}
}
