package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"simpleinvoice/internal/format"
	"simpleinvoice/internal/invoice"
	"simpleinvoice/pkg/models"
)

func printInvoice(w io.Writer, inv *models.Invoice) {
	fmt.Fprintf(w, "Invoice %s (%s)\n", inv.InvoiceNumber, inv.Status)
	fmt.Fprintf(w, "ID:       %s\n", inv.ID)
	fmt.Fprintf(w, "Issued:   %s\n", format.FormatTime(&inv.CreatedAt))
	fmt.Fprintf(w, "Due:      %s\n", format.FormatDate(inv.DueDate))
	if inv.PaidAt != nil {
		fmt.Fprintf(w, "Paid:     %s\n", format.FormatTime(inv.PaidAt))
	}
	fmt.Fprintf(w, "From:     %s\n", party(inv.FromName, inv.FromEmail))
	fmt.Fprintf(w, "Bill to:  %s\n", party(&inv.ClientName, inv.ClientEmail))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Description\tQty\tRate\tAmount\t")
	for _, item := range inv.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			item.Description,
			strconv.FormatFloat(item.Quantity, 'f', -1, 64),
			format.FormatCurrency(item.Rate, inv.Currency),
			format.FormatCurrency(item.Amount, inv.Currency),
		)
	}
	fmt.Fprintln(tw, "\t\t\t\t")
	fmt.Fprintf(tw, "\t\tSubtotal\t%s\t\n", format.FormatCurrency(inv.Subtotal, inv.Currency))
	fmt.Fprintf(tw, "\t\tTax (%s%%)\t%s\t\n", strconv.FormatFloat(inv.TaxRate, 'f', -1, 64), format.FormatCurrency(inv.TaxAmount, inv.Currency))
	fmt.Fprintf(tw, "\t\tTotal\t%s\t\n", format.FormatCurrency(inv.Total, inv.Currency))
	_ = tw.Flush()

	if notes := models.Deref(inv.Notes); notes != "" {
		fmt.Fprintf(w, "\nNotes: %s\n", notes)
	}
}

func printInvoiceTable(w io.Writer, invoices []models.Invoice) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tSTATUS\tCLIENT\tTOTAL\tDUE\tCREATED\tID")
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.InvoiceNumber,
			inv.Status,
			inv.ClientName,
			format.FormatCurrency(inv.Total, inv.Currency),
			format.FormatDate(inv.DueDate),
			format.FormatTime(&inv.CreatedAt),
			inv.ID,
		)
	}
	_ = tw.Flush()
}

// printStats shows dashboard totals in currency. Totals in other currencies
// are summed as plain numbers.
func printStats(w io.Writer, stats invoice.Stats, currency string) {
	fmt.Fprintf(w, "Invoices: %d (draft %d, sent %d, paid %d, overdue %d)\n",
		stats.Total, stats.Draft, stats.Sent, stats.Paid, stats.Overdue)
	fmt.Fprintf(w, "Outstanding: %s   Paid: %s\n",
		format.FormatCurrency(stats.TotalOutstanding, currency),
		format.FormatCurrency(stats.TotalPaid, currency))
}

func party(name, email *string) string {
	n, e := models.Deref(name), models.Deref(email)
	switch {
	case n == "" && e == "":
		return format.Placeholder
	case e == "":
		return n
	case n == "":
		return e
	default:
		return fmt.Sprintf("%s <%s>", n, e)
	}
}
