package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"simpleinvoice/internal/invoice"
	"simpleinvoice/internal/logger"
	"simpleinvoice/pkg/models"
)

var showCmd = &cobra.Command{
	Use:   "show <invoice-id>",
	Short: "Show one invoice",
	Long: `Show an invoice by id. Anyone with the id can view an invoice; only the
owner can change it.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var shareCmd = &cobra.Command{
	Use:   "share <invoice-id>",
	Short: "Print the public link of an invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runShare,
}

// showOutput is the --json shape of the show command.
type showOutput struct {
	Invoice  *models.Invoice `json:"invoice"`
	IsOwner  bool            `json:"is_owner"`
	ShareURL string          `json:"share_url"`
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(shareCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("show")

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

	inv, err := a.invoices.Get(ctx, args[0])
	if err != nil {
		return friendlyError(err, log)
	}

	output := showOutput{
		Invoice:  inv,
		IsOwner:  invoice.IsOwner(a.actor(), inv),
		ShareURL: invoice.ShareURL(a.cfg.AppBaseURL, inv.ID),
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), output)
	}

	out := cmd.OutOrStdout()
	printInvoice(out, inv)
	fmt.Fprintf(out, "\nShare link: %s\n", output.ShareURL)
	if !output.IsOwner {
		fmt.Fprintln(out, "(read-only: you are not the owner of this invoice)")
	}
	return nil
}

func runShare(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	url := invoice.ShareURL(a.cfg.AppBaseURL, args[0])
	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"share_url": url})
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
