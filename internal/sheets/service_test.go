package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"simpleinvoice/pkg/models"
)

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_9", id)

	_, err = extractSpreadsheetID("https://example.test/not-a-sheet")
	assert.Error(t, err)
}

func TestInvoiceRow(t *testing.T) {
	paidAt := time.Date(2026, time.October, 20, 15, 0, 0, 0, time.UTC)
	inv := &models.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-2610-0042",
		Status:        models.StatusPaid,
		ClientName:    "Globex",
		Currency:      "EUR",
		Subtotal:      100,
		TaxRate:       19,
		TaxAmount:     19,
		Total:         119,
		DueDate:       models.StringPtr("2026-11-01"),
		PaidAt:        &paidAt,
		CreatedAt:     time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC),
	}

	row := invoiceRow(inv, "https://simpleinvoice.test/")

	require.Len(t, row, len(Headers))
	assert.Equal(t, "INV-2610-0042", row[0])
	assert.Equal(t, "paid", row[1])
	assert.Equal(t, "", row[3], "missing email is blank")
	assert.Equal(t, 119.0, row[8])
	assert.Equal(t, "2026-10-20", row[10])
	assert.Equal(t, "Oct 1, 2026", row[11])
	assert.Equal(t, "https://simpleinvoice.test/invoice/inv-1", row[12])
}

func TestColumnRange(t *testing.T) {
	assert.Equal(t, "M", lastColumn())
	assert.Equal(t, "Invoices!A:M", columnRange("Invoices"))
}
