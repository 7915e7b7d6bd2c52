package pricing

import "github.com/shopspring/decimal"

// Amounts are whole rupees, the unit the catalog prices carry.
const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold int64 = 499
	// ShippingFee applies below the threshold.
	ShippingFee int64 = 49
)

// taxRate is the flat 18% GST applied to the subtotal.
var taxRate = decimal.NewFromFloat(0.18)

// Totals is the breakdown of an order's charges.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// Compute derives tax, shipping and the grand total from a cart subtotal.
// Tax is rounded to the nearest rupee.
func Compute(subtotal int64) Totals {
	tax := decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()

	shipping := ShippingFee
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}
