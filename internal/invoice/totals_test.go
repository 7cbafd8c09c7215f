package invoice

import (
	"math"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"simpleinvoice/pkg/models"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name    string
		items   []models.LineItem
		taxRate float64
		want    TotalsResult
	}{
		{
			name: "two lines with tax",
			items: []models.LineItem{
				{Quantity: 2, Rate: 50},
				{Quantity: 1, Rate: 19.99},
			},
			taxRate: 8.5,
			want:    TotalsResult{Subtotal: 119.99, TaxAmount: 10.20, Total: 130.19},
		},
		{
			name:    "empty list",
			items:   nil,
			taxRate: 20,
			want:    TotalsResult{},
		},
		{
			name:    "zero tax",
			items:   []models.LineItem{{Quantity: 3, Rate: 33.333}},
			taxRate: 0,
			want:    TotalsResult{Subtotal: 100, TaxAmount: 0, Total: 100},
		},
		{
			name:    "fractional quantity",
			items:   []models.LineItem{{Quantity: 1.5, Rate: 80}},
			taxRate: 10,
			want:    TotalsResult{Subtotal: 120, TaxAmount: 12, Total: 132},
		},
		{
			name:    "negative tax rate is not clamped",
			items:   []models.LineItem{{Quantity: 1, Rate: 100}},
			taxRate: -10,
			want:    TotalsResult{Subtotal: 100, TaxAmount: -10, Total: 90},
		},
		{
			name:    "cached amount is ignored",
			items:   []models.LineItem{{Quantity: 2, Rate: 10, Amount: 999}},
			taxRate: 0,
			want:    TotalsResult{Subtotal: 20, TaxAmount: 0, Total: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.taxRate)
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.want.TaxAmount, got.TaxAmount, 1e-9)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
		})
	}
}

func TestComputeTotals_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		n := rng.IntN(6)
		items := make([]models.LineItem, n)
		for j := range items {
			items[j] = models.LineItem{
				Quantity: float64(rng.IntN(1000)) / 10,
				Rate:     float64(rng.IntN(100000)) / 100,
			}
		}
		taxRate := float64(rng.IntN(2500)) / 100

		got := ComputeTotals(items, taxRate)

		// Every stage is already rounded.
		assert.Equal(t, got.Subtotal, Round2(got.Subtotal))
		assert.Equal(t, got.TaxAmount, Round2(got.TaxAmount))
		assert.Equal(t, got.Total, Round2(got.Total))

		assert.Equal(t, Round2(got.Subtotal+got.TaxAmount), got.Total)
		assert.Equal(t, Round2(got.Subtotal*(taxRate/100)), got.TaxAmount)

		// Same input, same output.
		assert.Equal(t, got, ComputeTotals(items, taxRate))

		// A higher tax rate never lowers the total.
		higher := ComputeTotals(items, taxRate+1)
		assert.GreaterOrEqual(t, higher.Total, got.Total)
	}
}

func TestLineAmount_MayDifferFromSubtotalByACent(t *testing.T) {
	items := []models.LineItem{
		{Quantity: 1, Rate: 0.005},
		{Quantity: 1, Rate: 0.005},
	}

	var lineSum float64
	for _, item := range items {
		lineSum += LineAmount(item)
	}

	totals := ComputeTotals(items, 0)
	assert.InDelta(t, 0.01, totals.Subtotal, 1e-9)
	assert.InDelta(t, 0.02, lineSum, 1e-9)
	assert.LessOrEqual(t, math.Abs(lineSum-totals.Subtotal), 0.01+1e-9)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.235000001))
	assert.Equal(t, -1.5, Round2(-1.499999))
	assert.Equal(t, 10.2, Round2(10.19915))
	assert.Equal(t, 0.0, Round2(0.004))
}

var invoiceNumberPattern = regexp.MustCompile(`^INV-\d{4}-\d{4}$`)

func TestGenerateInvoiceNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := GenerateInvoiceNumber()
		assert.Regexp(t, invoiceNumberPattern, n)
	}
	assert.Contains(t, GenerateInvoiceNumber(), time.Now().Format("0601"))
}

func TestFormatInvoiceNumber(t *testing.T) {
	issued := time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-2501-0000", FormatInvoiceNumber(issued, 0))
	assert.Equal(t, "INV-2501-9999", FormatInvoiceNumber(issued, 9999))
	assert.Equal(t, "INV-2501-0007", FormatInvoiceNumber(issued, 10007))
	assert.Equal(t, "INV-2501-9999", FormatInvoiceNumber(issued, -1))
}
