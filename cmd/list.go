package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"simpleinvoice/internal/invoice"
	"simpleinvoice/internal/logger"
	"simpleinvoice/pkg/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your invoices with dashboard totals",
	Long: `List the invoices you own, newest first, with counts per status and
the outstanding (sent and overdue) and paid totals.`,
	Example: `  simpleinvoice list
  simpleinvoice list --status overdue
  simpleinvoice list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// listOutput is the --json shape of the list command.
type listOutput struct {
	Invoices []models.Invoice `json:"invoices"`
	Stats    invoice.Stats    `json:"stats"`
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("status", "", "Only show invoices with this status (draft, sent, paid, overdue)")
}

func runList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("list")

	var filter *models.Status
	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return err
		}
		filter = &status
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

	all, err := a.invoices.List(ctx, a.actor(), nil)
	if err != nil {
		return friendlyError(err, log)
	}
	shown := invoice.FilterByStatus(all, filter)
	stats := invoice.ComputeStats(all)

	log.Debug().
		Int("total", len(all)).
		Int("shown", len(shown)).
		Msg("Listed invoices")

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), listOutput{Invoices: shown, Stats: stats})
	}

	out := cmd.OutOrStdout()
	printStats(out, stats, a.cfg.DefaultCurrency)
	fmt.Fprintln(out)

	if len(shown) == 0 {
		if len(all) == 0 {
			fmt.Fprintln(out, "No invoices yet. Create one with 'simpleinvoice create'.")
		} else {
			fmt.Fprintln(out, "No invoices match that status.")
		}
		return nil
	}
	printInvoiceTable(out, shown)
	return nil
}
