package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"simpleinvoice/internal/format"
	"simpleinvoice/internal/quota"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show how many free invoices are left on this machine",
	Args:  cobra.NoArgs,
	RunE:  runQuota,
}

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List supported currencies",
	Args:  cobra.NoArgs,
	RunE:  runCurrencies,
}

// quotaOutput is the --json shape of the quota command.
type quotaOutput struct {
	Authenticated  bool   `json:"authenticated"`
	AnonymousToken string `json:"anonymous_token,omitempty"`
	Used           int    `json:"used"`
	Remaining      int    `json:"remaining"`
	Limit          int    `json:"limit"`
	StateFile      string `json:"state_file,omitempty"`
}

func init() {
	rootCmd.AddCommand(quotaCmd)
	rootCmd.AddCommand(currenciesCmd)
}

func runQuota(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	_, signedIn := a.sessions.Token()
	token, _ := a.tracker.Token()
	output := quotaOutput{
		Authenticated:  signedIn,
		AnonymousToken: token,
		Used:           a.tracker.Count(),
		Remaining:      a.tracker.RemainingFree(),
		Limit:          quota.MaxFreeInvoices,
		StateFile:      a.state.Path(),
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), output)
	}

	out := cmd.OutOrStdout()
	if signedIn {
		fmt.Fprintln(out, "You are logged in: invoice creation is unlimited.")
		return nil
	}
	fmt.Fprintf(out, "Free invoices used: %d of %d (%d left)\n", output.Used, output.Limit, output.Remaining)
	if output.Remaining == 0 {
		fmt.Fprintln(out, "Run 'simpleinvoice login' to create more.")
	}
	if output.StateFile == "" {
		fmt.Fprintln(out, "No local state path is configured; the counter is not saved.")
	}
	return nil
}

func runCurrencies(cmd *cobra.Command, args []string) error {
	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), format.Currencies)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tSYMBOL\tNAME\tEXAMPLE")
	for _, c := range format.Currencies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Code, c.Symbol, c.Name, format.FormatCurrency(1234.5, c.Code))
	}
	return tw.Flush()
}
