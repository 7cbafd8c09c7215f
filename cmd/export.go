package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"
	"simpleinvoice/internal/logger"
	"simpleinvoice/internal/pdf"
	"simpleinvoice/internal/sheets"
	"simpleinvoice/pkg/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export invoices as PDF or to Google Sheets",
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf <invoice-id>",
	Short: "Write a printable PDF of an invoice",
	Example: `  # Writes INV-2610-0042.pdf in the current directory
  simpleinvoice export pdf 3f1c2d9e-...

  simpleinvoice export pdf 3f1c2d9e-... -o ~/Desktop/globex.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExportPDF,
}

var exportSheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Append your invoices to a Google Sheet",
	Long: `Append one row per invoice to a worksheet of a Google Sheet. The
worksheet and a header row are created when missing.

Required environment variables:
  GOOGLE_SHEET_URL - URL of the target spreadsheet (or --sheet-url)
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string

Share the spreadsheet with the service account's email address.`,
	Example: `  simpleinvoice export sheets
  simpleinvoice export sheets --status paid --worksheet "Paid 2026"`,
	Args: cobra.NoArgs,
	RunE: runExportSheets,
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportPDFCmd)
	exportCmd.AddCommand(exportSheetsCmd)

	exportPDFCmd.Flags().StringP("output", "o", "", "Output file path (default: <invoice-number>.pdf)")

	exportSheetsCmd.Flags().String("sheet-url", "", "Google Sheet URL (default: GOOGLE_SHEET_URL)")
	exportSheetsCmd.Flags().String("worksheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
	exportSheetsCmd.Flags().String("status", "", "Only export invoices with this status")
}

func runExportPDF(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export-pdf")

	outputPath, _ := cmd.Flags().GetString("output")

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

	doc, err := pdf.NewRenderer().Render(inv)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = pdfFileName(inv)
	}
	if err := os.WriteFile(outputPath, doc, 0o644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write PDF")
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(doc)).
		Msg("Invoice PDF written")

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"file": outputPath, "bytes": len(doc)})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
	return nil
}

func pdfFileName(inv *models.Invoice) string {
	name := unsafeFileChars.ReplaceAllString(inv.InvoiceNumber, "_")
	if name == "" || name == "_" {
		name = "invoice-" + inv.ID
	}
	return filepath.Clean(name + ".pdf")
}

func runExportSheets(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export-sheets")

	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	worksheet, _ := cmd.Flags().GetString("worksheet")
	rawStatus, _ := cmd.Flags().GetString("status")

	var filter *models.Status
	if rawStatus != "" {
		status, err := models.ParseStatus(rawStatus)
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

	if sheetURL == "" {
		sheetURL = a.cfg.GoogleSheetURL
	}
	if sheetURL == "" {
		return fmt.Errorf("no spreadsheet configured, set GOOGLE_SHEET_URL or pass --sheet-url")
	}
	if worksheet == "" {
		worksheet = a.cfg.GoogleSheetWorksheet
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	if err := a.openInvoices(ctx, nil); err != nil {
		return friendlyError(err, log)
	}

	invoices, err := a.invoices.List(ctx, a.actor(), filter)
	if err != nil {
		return friendlyError(err, log)
	}
	if len(invoices) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to export.")
		return nil
	}

	svc, err := sheets.NewSheetsService(ctx, sheetURL)
	if err != nil {
		return err
	}

	written, err := svc.WriteInvoices(ctx, invoices, worksheet, a.cfg.AppBaseURL)
	if err != nil {
		return friendlyError(err, log)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"worksheet": worksheet, "rows": written})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d invoice(s) to worksheet %q\n", written, worksheet)
	return nil
}
