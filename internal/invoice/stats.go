package invoice

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
	"simpleinvoice/pkg/models"
)

// Stats summarizes a dashboard's invoices.
type Stats struct {
	Total            int     `json:"total"`
	Draft            int     `json:"draft"`
	Sent             int     `json:"sent"`
	Paid             int     `json:"paid"`
	Overdue          int     `json:"overdue"`
	TotalOutstanding float64 `json:"total_outstanding"`
	TotalPaid        float64 `json:"total_paid"`
}

// ComputeStats counts invoices per status and sums outstanding (sent and
// overdue) and paid totals. Amounts in different currencies are added as
// plain numbers; there is no conversion.
func ComputeStats(invoices []models.Invoice) Stats {
	byStatus := func(statuses ...models.Status) func(models.Invoice) bool {
		return func(inv models.Invoice) bool {
			return lo.Contains(statuses, inv.Status)
		}
	}
	total := func(inv models.Invoice) float64 { return inv.Total }

	return Stats{
		Total:            len(invoices),
		Draft:            lo.CountBy(invoices, byStatus(models.StatusDraft)),
		Sent:             lo.CountBy(invoices, byStatus(models.StatusSent)),
		Paid:             lo.CountBy(invoices, byStatus(models.StatusPaid)),
		Overdue:          lo.CountBy(invoices, byStatus(models.StatusOverdue)),
		TotalOutstanding: lo.SumBy(lo.Filter(invoices, ignoreIndex(byStatus(models.StatusSent, models.StatusOverdue))), total),
		TotalPaid:        lo.SumBy(lo.Filter(invoices, ignoreIndex(byStatus(models.StatusPaid))), total),
	}
}

// FilterByStatus keeps the invoices with the given status; a nil status keeps all.
func FilterByStatus(invoices []models.Invoice, status *models.Status) []models.Invoice {
	if status == nil {
		return invoices
	}
	return lo.Filter(invoices, func(inv models.Invoice, _ int) bool {
		return inv.Status == *status
	})
}

func ignoreIndex(pred func(models.Invoice) bool) func(models.Invoice, int) bool {
	return func(inv models.Invoice, _ int) bool { return pred(inv) }
}

// ShareURL is the public link of an invoice: {baseURL}/invoice/{id}.
func ShareURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/invoice/" + url.PathEscape(id)
}
