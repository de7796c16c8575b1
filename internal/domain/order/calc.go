package order

import "github.com/shopspring/decimal"

// taxRate is the fixed IVA rate applied to lines with tax breakout.
var taxRate = decimal.New(16, -2)

var hundred = decimal.NewFromInt(100)

// ComputeLine derives a line's tax amount and line total from its declared
// net amount. Lines without tax breakout carry zero tax. Callers must
// reject negative net amounts before invoking this.
func ComputeLine(netAmount decimal.Decimal, taxBreakout bool) (tax, lineTotal decimal.Decimal) {
	tax = decimal.Zero
	if taxBreakout {
		tax = netAmount.Mul(taxRate).Round(2)
	}
	return tax, netAmount.Add(tax)
}

// ComputeTotals derives the order aggregates from computed lines and a
// discount percent. The subtotal accumulates unrounded net amounts and is
// rounded once at the end. Order-level tax is a straight sum of the
// already-rounded per-line taxes, not a re-rounding of an unrounded base,
// so the order total always matches the sum of the figures shown per line.
// An empty line list yields all-zero totals.
func ComputeTotals(lines []Line, discountPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.NetAmount)
		tax = tax.Add(l.TaxAmount)
	}

	discount := subtotal.Mul(discountPercent).Div(hundred).Round(2)
	total := subtotal.Sub(discount).Add(tax).Round(2)

	return Totals{
		Subtotal:       subtotal.Round(2),
		DiscountAmount: discount,
		TaxAmount:      tax.Round(2),
		Total:          total,
	}
}
