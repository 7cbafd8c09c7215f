package repository

import (
	"context"
	"fmt"

	"github.com/nedpals/supabase-go"
	"github.com/rs/zerolog"
	"simpleinvoice/internal/logger"
	"simpleinvoice/pkg/models"
	"simpleinvoice/pkg/services"
)

// SupabaseRepository stores invoices in the Supabase `invoices` table.
// Row-level security decides what the caller may read and write; the
// repository itself applies no access checks.
type SupabaseRepository struct {
	client *supabase.Client
	log    zerolog.Logger
}

// invoiceInsert is the insert payload. id and the timestamps are omitted so
// that the database defaults apply.
type invoiceInsert struct {
	UserID         *string           `json:"user_id"`
	AnonymousToken *string           `json:"anonymous_token"`
	InvoiceNumber  string            `json:"invoice_number"`
	Status         models.Status     `json:"status"`
	ClientName     string            `json:"client_name"`
	ClientEmail    *string           `json:"client_email"`
	FromName       *string           `json:"from_name"`
	FromEmail      *string           `json:"from_email"`
	Items          []models.LineItem `json:"items"`
	Subtotal       float64           `json:"subtotal"`
	TaxRate        float64           `json:"tax_rate"`
	TaxAmount      float64           `json:"tax_amount"`
	Total          float64           `json:"total"`
	Currency       string            `json:"currency"`
	Notes          *string           `json:"notes"`
	DueDate        *string           `json:"due_date"`
}

// NewSupabaseRepository creates a repository for the project at baseURL.
// When accessToken is set, requests are made as that user so row-level
// security sees their identity; otherwise they use the anon key.
func NewSupabaseRepository(baseURL, anonKey, accessToken string) (*SupabaseRepository, error) {
	const op = "NewSupabaseRepository"

	client := supabase.CreateClient(baseURL, anonKey)
	if client == nil {
		return nil, fmt.Errorf("%s: failed to create Supabase client for %s", op, baseURL)
	}
	if accessToken != "" {
		// Replaces the anon key bearer set by CreateClient.
		client.DB.AddHeader("Authorization", "Bearer "+accessToken)
	}

	return &SupabaseRepository{
		client: client,
		log:    logger.WithComponent("supabase-repository"),
	}, nil
}

var _ services.InvoiceRepository = (*SupabaseRepository)(nil)

func (r *SupabaseRepository) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	const op = "Create"

	payload := invoiceInsert{
		UserID:         invoice.UserID,
		AnonymousToken: invoice.AnonymousToken,
		InvoiceNumber:  invoice.InvoiceNumber,
		Status:         invoice.Status,
		ClientName:     invoice.ClientName,
		ClientEmail:    invoice.ClientEmail,
		FromName:       invoice.FromName,
		FromEmail:      invoice.FromEmail,
		Items:          invoice.Items,
		Subtotal:       invoice.Subtotal,
		TaxRate:        invoice.TaxRate,
		TaxAmount:      invoice.TaxAmount,
		Total:          invoice.Total,
		Currency:       invoice.Currency,
		Notes:          invoice.Notes,
		DueDate:        invoice.DueDate,
	}

	var rows []models.Invoice
	err := r.client.DB.From(invoicesTable).
		Insert(payload).
		ExecuteWithContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: insert returned no rows", op)
	}

	r.log.Debug().
		Str("invoice_id", rows[0].ID).
		Str("invoice_number", rows[0].InvoiceNumber).
		Msg("Invoice inserted")

	return &rows[0], nil
}

func (r *SupabaseRepository) Get(ctx context.Context, id string) (*models.Invoice, error) {
	const op = "Get"

	var rows []models.Invoice
	err := r.client.DB.From(invoicesTable).
		Select("*").
		Eq("id", id).
		ExecuteWithContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *SupabaseRepository) ListByOwner(ctx context.Context, owner models.Owner) ([]models.Invoice, error) {
	const op = "ListByOwner"

	if owner.IsZero() {
		return []models.Invoice{}, nil
	}

	column, value := "anonymous_token", owner.AnonymousToken
	if owner.UserID != "" {
		column, value = "user_id", owner.UserID
	}

	var rows []models.Invoice
	err := r.client.DB.From(invoicesTable).
		Select("*").
		Eq(column, value).
		ExecuteWithContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sortNewestFirst(rows)
	return rows, nil
}

func (r *SupabaseRepository) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Invoice, error) {
	const op = "UpdateStatus"

	// paid_at has no omitempty, so a nil value clears the column.
	var rows []models.Invoice
	err := r.client.DB.From(invoicesTable).
		Update(update).
		Eq("id", id).
		ExecuteWithContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		// Either the id is unknown or row-level security hid it.
		return nil, ErrNotFound
	}
	return &rows[0], nil
}
