package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"simpleinvoice/pkg/models"
)

func TestComputeStats(t *testing.T) {
	invoices := []models.Invoice{
		{Status: models.StatusDraft, Total: 10},
		{Status: models.StatusSent, Total: 100.5},
		{Status: models.StatusOverdue, Total: 49.5},
		{Status: models.StatusPaid, Total: 200},
		{Status: models.StatusPaid, Total: 0.99},
	}

	stats := ComputeStats(invoices)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Draft)
	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, 2, stats.Paid)
	assert.Equal(t, 1, stats.Overdue)
	assert.InDelta(t, 150, stats.TotalOutstanding, 1e-9)
	assert.InDelta(t, 200.99, stats.TotalPaid, 1e-9)
}

func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestFilterByStatus(t *testing.T) {
	invoices := []models.Invoice{
		{ID: "a", Status: models.StatusDraft},
		{ID: "b", Status: models.StatusPaid},
		{ID: "c", Status: models.StatusDraft},
	}

	assert.Len(t, FilterByStatus(invoices, nil), 3)

	draft := models.StatusDraft
	got := FilterByStatus(invoices, &draft)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestShareURL(t *testing.T) {
	assert.Equal(t, "http://localhost:3000/invoice/abc", ShareURL("http://localhost:3000", "abc"))
	assert.Equal(t, "http://localhost:3000/invoice/abc", ShareURL("http://localhost:3000///", "abc"))
	assert.Equal(t, "https://x.test/invoice/a%2Fb", ShareURL("https://x.test", "a/b"))
}
