// Package repository implements services.InvoiceRepository on top of the
// supported storage backends: Supabase (PostgREST) and a local SQLite file.
package repository

import (
	"errors"
	"sort"

	"simpleinvoice/pkg/models"
)

// ErrNotFound is returned when no invoice has the requested id.
var ErrNotFound = errors.New("invoice not found")

const invoicesTable = "invoices"

// sortNewestFirst orders invoices by creation time, newest first.
func sortNewestFirst(invoices []models.Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
}
