package invoice

import (
	"math"

	"simpleinvoice/pkg/models"
)

// TotalsResult holds the persisted money fields of an invoice.
type TotalsResult struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// Round2 rounds x to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// LineAmount is the display amount of a single line: round2(quantity * rate).
func LineAmount(item models.LineItem) float64 {
	return Round2(item.Quantity * item.Rate)
}

// ComputeTotals derives subtotal, tax and total from the line items.
//
// Rounding happens after every stage: the subtotal rounds the sum of the raw
// quantity*rate products, the tax rounds subtotal*rate%, the total rounds
// their sum. The cached Amount on each item is ignored. Because line amounts
// are rounded individually, the sum of displayed line amounts may differ from
// Subtotal by a cent; that is expected.
//
// taxRatePercent is not clamped. Out-of-range or negative input produces
// arithmetically consistent results.
func ComputeTotals(items []models.LineItem, taxRatePercent float64) TotalsResult {
	var sum float64
	for _, item := range items {
		sum += item.Quantity * item.Rate
	}

	subtotal := Round2(sum)
	taxAmount := Round2(subtotal * (taxRatePercent / 100))
	total := Round2(subtotal + taxAmount)

	return TotalsResult{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     total,
	}
}
