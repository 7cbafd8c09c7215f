// Package pdf renders printable invoice documents.
package pdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/rs/zerolog"
	"simpleinvoice/internal/format"
	"simpleinvoice/internal/logger"
	"simpleinvoice/pkg/models"
)

// document is an invoice with every value already formatted for print.
type document struct {
	Number   string
	Status   string
	Issued   string
	Due      string
	PaidAt   string
	FromName string
	FromMail string
	ToName   string
	ToMail   string
	Items    []documentItem
	Subtotal string
	TaxLabel string
	Tax      string
	Total    string
	Notes    string
}

type documentItem struct {
	Description string
	Quantity    string
	Rate        string
	Amount      string
}

// Renderer turns invoices into PDF bytes.
type Renderer struct {
	log zerolog.Logger
}

func NewRenderer() *Renderer {
	return &Renderer{log: logger.WithComponent("pdf")}
}

// Render produces the printable document for inv.
func (r *Renderer) Render(inv *models.Invoice) ([]byte, error) {
	const op = "Render"

	if inv == nil {
		return nil, fmt.Errorf("%s: invoice is nil", op)
	}

	doc := buildDocument(inv)

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(8, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, strings.ToUpper(doc.Status), props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
			Top:   4,
		}),
	)

	meta := []string{
		"Invoice number: " + doc.Number,
		"Date of issue: " + doc.Issued,
		"Date due: " + doc.Due,
	}
	if doc.PaidAt != "" {
		meta = append(meta, "Paid on: "+doc.PaidAt)
	}
	metaCol := col.New(6)
	for i, entry := range meta {
		metaCol = metaCol.Add(text.New(entry, props.Text{Top: float64(i * 4)}))
	}
	m.AddRow(float64(len(meta)*4+6), metaCol, col.New(6))

	m.AddRow(24,
		col.New(6).Add(
			text.New("From", props.Text{Style: fontstyle.Bold}),
			text.New(doc.FromName, props.Text{Top: 5}),
			text.New(doc.FromMail, props.Text{Top: 9}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(doc.ToName, props.Text{Top: 5}),
			text.New(doc.ToMail, props.Text{Top: 9}),
		),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 9}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}
	m.AddRow(8,
		text.NewCol(6, "Description", header),
		text.NewCol(2, "Qty", headerRight),
		text.NewCol(2, "Rate", headerRight),
		text.NewCol(2, "Amount", headerRight),
	)
	m.AddRow(2, line.NewCol(12))

	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	for _, item := range doc.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, cell),
			text.NewCol(2, item.Quantity, cellRight),
			text.NewCol(2, item.Rate, cellRight),
			text.NewCol(2, item.Amount, cellRight),
		)
	}
	m.AddRow(2, line.NewCol(12))

	m.AddRow(7,
		col.New(7),
		text.NewCol(2, "Subtotal", cell),
		text.NewCol(3, doc.Subtotal, cellRight),
	)
	m.AddRow(7,
		col.New(7),
		text.NewCol(2, doc.TaxLabel, cell),
		text.NewCol(3, doc.Tax, cellRight),
	)
	m.AddRow(9,
		col.New(7),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, doc.Total, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if doc.Notes != "" {
		m.AddRow(8, text.NewCol(12, "Notes", props.Text{Style: fontstyle.Bold, Top: 4}))
		m.AddRow(20, text.NewCol(12, doc.Notes, props.Text{Size: 9}))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate PDF for invoice %s: %w", op, inv.ID, err)
	}

	b := out.GetBytes()
	r.log.Debug().
		Str("invoice_id", inv.ID).
		Int("bytes", len(b)).
		Msg("Invoice PDF rendered")

	return b, nil
}

func buildDocument(inv *models.Invoice) document {
	currency := inv.Currency
	if currency == "" {
		currency = format.DefaultCurrency
	}

	doc := document{
		Number:   inv.InvoiceNumber,
		Status:   inv.Status.String(),
		Issued:   format.FormatTime(&inv.CreatedAt),
		Due:      format.FormatDate(inv.DueDate),
		FromName: orPlaceholder(models.Deref(inv.FromName)),
		FromMail: models.Deref(inv.FromEmail),
		ToName:   inv.ClientName,
		ToMail:   models.Deref(inv.ClientEmail),
		Subtotal: format.FormatAmount(inv.Subtotal, currency),
		TaxLabel: fmt.Sprintf("Tax (%s%%)", strconv.FormatFloat(inv.TaxRate, 'f', -1, 64)),
		Tax:      format.FormatAmount(inv.TaxAmount, currency),
		Total:    format.FormatAmount(inv.Total, currency),
		Notes:    models.Deref(inv.Notes),
	}
	if inv.PaidAt != nil {
		doc.PaidAt = format.FormatTime(inv.PaidAt)
	}

	doc.Items = make([]documentItem, 0, len(inv.Items))
	for _, item := range inv.Items {
		doc.Items = append(doc.Items, documentItem{
			Description: item.Description,
			Quantity:    strconv.FormatFloat(item.Quantity, 'f', -1, 64),
			Rate:        format.FormatAmount(item.Rate, currency),
			Amount:      format.FormatAmount(item.Amount, currency),
		})
	}

	return doc
}

func orPlaceholder(s string) string {
	if s == "" {
		return format.Placeholder
	}
	return s
}
