package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"simpleinvoice/internal/format"
	"simpleinvoice/internal/invoice"
	"simpleinvoice/internal/logger"
	"simpleinvoice/internal/quota"
	"simpleinvoice/pkg/models"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new draft invoice",
	Long: `Create a draft invoice. Each --item is "description:quantity:rate";
repeat the flag for more lines. Line amounts, subtotal, tax and total are
computed for you and rounded to two decimals.

Without logging in, each machine may create 3 invoices.`,
	Example: `  # One line, 8.5% tax, billed in euros
  simpleinvoice create --client "Globex" --item "Design work:2:50" --tax 8.5 --currency EUR

  # Several lines with a due date and your own invoice number
  simpleinvoice create --client "Initech" --client-email ap@initech.test \
    --from "Jane Doe" --from-email jane@example.test \
    --item "Consulting:10:120" --item "Travel:1:340.50" \
    --due 2026-11-30 --number ACME-0042`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().String("client", "", "Client name (required)")
	createCmd.Flags().String("client-email", "", "Client email")
	createCmd.Flags().String("from", "", "Your name or business name")
	createCmd.Flags().String("from-email", "", "Your email")
	createCmd.Flags().StringArray("item", nil, `Line item "description:quantity:rate" (repeatable)`)
	createCmd.Flags().Float64("tax", 0, "Tax rate in percent (0-100)")
	createCmd.Flags().String("currency", "", "Currency code (default: DEFAULT_CURRENCY)")
	createCmd.Flags().String("notes", "", "Notes printed on the invoice")
	createCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	createCmd.Flags().String("number", "", "Invoice number (default: generated INV-YYMM-NNNN)")

	_ = createCmd.MarkFlagRequired("client")
	_ = createCmd.MarkFlagRequired("item")
}

func runCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("create")

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	form, err := formFromFlags(cmd, a.cfg.DefaultCurrency)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	if err := a.openInvoices(ctx, a.tracker); err != nil {
		return friendlyError(err, log)
	}

	log.Info().
		Str("client", form.ClientName).
		Int("items", len(form.Items)).
		Bool("authenticated", a.user != nil).
		Msg("Creating invoice")

	created, err := a.invoices.Create(ctx, a.actor(), form)
	if err != nil {
		return friendlyError(err, log)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), created)
	}

	out := cmd.OutOrStdout()
	printInvoice(out, created)
	fmt.Fprintf(out, "\nShare link: %s\n", invoice.ShareURL(a.cfg.AppBaseURL, created.ID))
	if a.user == nil {
		fmt.Fprintf(out, "Free invoices left: %d of %d\n", a.tracker.RemainingFree(), quota.MaxFreeInvoices)
	}
	return nil
}

func formFromFlags(cmd *cobra.Command, defaultCurrency string) (invoice.FormData, error) {
	flags := cmd.Flags()

	client, _ := flags.GetString("client")
	clientEmail, _ := flags.GetString("client-email")
	from, _ := flags.GetString("from")
	fromEmail, _ := flags.GetString("from-email")
	rawItems, _ := flags.GetStringArray("item")
	tax, _ := flags.GetFloat64("tax")
	currency, _ := flags.GetString("currency")
	notes, _ := flags.GetString("notes")
	due, _ := flags.GetString("due")
	number, _ := flags.GetString("number")

	if currency == "" {
		currency = defaultCurrency
	}
	if !format.IsSupported(currency) {
		codes := make([]string, 0, len(format.Currencies))
		for _, c := range format.Currencies {
			codes = append(codes, c.Code)
		}
		return invoice.FormData{}, fmt.Errorf("unsupported currency %q (choose one of %s)", currency, strings.Join(codes, ", "))
	}

	items := make([]models.LineItem, 0, len(rawItems))
	for _, raw := range rawItems {
		item, err := parseItem(raw)
		if err != nil {
			return invoice.FormData{}, err
		}
		items = append(items, item)
	}

	return invoice.FormData{
		InvoiceNumber: number,
		ClientName:    client,
		ClientEmail:   clientEmail,
		FromName:      from,
		FromEmail:     fromEmail,
		Items:         items,
		TaxRate:       tax,
		Currency:      currency,
		Notes:         notes,
		DueDate:       due,
	}, nil
}

// parseItem reads "description:quantity:rate". The description may itself
// contain colons; quantity and rate are the last two fields.
func parseItem(raw string) (models.LineItem, error) {
	rateSep := strings.LastIndex(raw, ":")
	if rateSep < 0 {
		return models.LineItem{}, fmt.Errorf("item %q: expected description:quantity:rate", raw)
	}
	qtySep := strings.LastIndex(raw[:rateSep], ":")
	if qtySep < 0 {
		return models.LineItem{}, fmt.Errorf("item %q: expected description:quantity:rate", raw)
	}

	description := strings.TrimSpace(raw[:qtySep])
	quantity, err := parseNumber(raw[qtySep+1 : rateSep])
	if err != nil {
		return models.LineItem{}, fmt.Errorf("item %q: quantity is not a number", raw)
	}
	rate, err := parseNumber(raw[rateSep+1:])
	if err != nil {
		return models.LineItem{}, fmt.Errorf("item %q: rate is not a number", raw)
	}

	return models.LineItem{
		Description: description,
		Quantity:    quantity,
		Rate:        rate,
	}, nil
}

// parseNumber is strconv.ParseFloat without Inf and NaN.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return f, nil
}
