package entity

import "github.com/shopspring/decimal"

// Pricing holds the order-level charges applied on top of the item subtotal.
type Pricing struct {
	TaxRate          decimal.Decimal
	ShippingFee      decimal.Decimal
	FreeShippingOver decimal.Decimal
	Discount         decimal.Decimal
}

// Totals is the computed money breakdown of an order.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Apply computes total = subtotal + tax + shipping - discount, never below zero.
func (p Pricing) Apply(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(p.TaxRate).Round(2)

	shipping := p.ShippingFee
	if p.FreeShippingOver.IsPositive() && subtotal.GreaterThanOrEqual(p.FreeShippingOver) {
		shipping = decimal.Zero
	}

	total := subtotal.Add(tax).Add(shipping).Sub(p.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: p.Discount,
		Total:    total,
	}
}

// MinorUnits converts an amount to paise/cents.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
