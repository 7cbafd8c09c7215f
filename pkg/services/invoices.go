package services

import (
	"context"

	"simpleinvoice/pkg/models"
)

// InvoiceRepository persists invoices in the remote backend.
type InvoiceRepository interface {
	// Create inserts a new invoice and returns the stored record, including
	// any server-assigned columns (id, timestamps).
	Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)

	// Get returns the invoice with the given id or repository.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Invoice, error)

	// ListByOwner returns the owner's invoices, newest first.
	ListByOwner(ctx context.Context, owner models.Owner) ([]models.Invoice, error)

	// UpdateStatus writes a status transition and returns the updated record.
	UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Invoice, error)
}

// Authenticator resolves user sessions against the auth backend.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	User(ctx context.Context, accessToken string) (*models.User, error)
	SignOut(ctx context.Context, accessToken string) error
}
