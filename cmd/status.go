package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"simpleinvoice/internal/format"
	"simpleinvoice/internal/logger"
	"simpleinvoice/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status <invoice-id> <draft|sent|paid|overdue>",
	Short: "Change the status of an invoice you own",
	Long: `Move an invoice to another status. Marking it paid records the payment
time; moving it away from paid clears it.`,
	Example: `  simpleinvoice status 3f1c2d9e-... sent
  simpleinvoice status 3f1c2d9e-... paid`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"draft", "sent", "paid", "overdue"},
	RunE:      runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("status")

	status, err := models.ParseStatus(args[1])
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	if err := a.openInvoices(ctx, nil); err != nil {
		return friendlyError(err, log)
	}

	updated, err := a.invoices.SetStatus(ctx, a.actor(), args[0], status)
	if err != nil {
		return friendlyError(err, log)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), updated)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Invoice %s is now %s\n", updated.InvoiceNumber, updated.Status)
	if updated.PaidAt != nil {
		fmt.Fprintf(out, "Paid on %s\n", format.FormatTime(updated.PaidAt))
	}
	return nil
}
