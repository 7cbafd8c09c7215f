package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"simpleinvoice/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "simpleinvoice",
	Short: "SimpleInvoice - create, track and share invoices",
	Long: `SimpleInvoice creates professional invoices from the command line,
tracks their status (draft, sent, paid, overdue) and shares them by link
or as PDF.

Without an account you can create up to 3 invoices; they are tied to an
anonymous token stored on this machine. Log in to create more.

Invoices are stored in Supabase (STORAGE_BACKEND=supabase) or in a local
SQLite file (STORAGE_BACKEND=sqlite).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Debug().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Print machine-readable JSON instead of text")
	rootCmd.PersistentFlags().Int("timeout", 30, "Timeout in seconds for backend requests")
}
