// Package invoice implements invoice creation, listing and status changes.
//
// It owns the money arithmetic (ComputeTotals), invoice numbering, the status
// transition rule, form validation and dashboard stats. Persistence and user
// sessions are injected through the interfaces in pkg/services.
//
// Anonymous visitors may create up to quota.MaxFreeInvoices invoices. Their
// identity is a random token kept in a local store; the Service consults the
// quota.Tracker before every anonymous create and counts only successful
// inserts.
package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"simpleinvoice/internal/logger"
	"simpleinvoice/internal/quota"
	"simpleinvoice/pkg/models"
	"simpleinvoice/pkg/services"
)

// Actor is whoever is calling the service.
type Actor struct {
	UserID         string
	AnonymousToken string
}

// IsAuthenticated reports whether the actor is a signed-in user.
func (a Actor) IsAuthenticated() bool {
	return a.UserID != ""
}

// Owner returns the identity invoices are stored under. A signed-in user
// owns by user id only.
func (a Actor) Owner() models.Owner {
	if a.IsAuthenticated() {
		return models.Owner{UserID: a.UserID}
	}
	return models.Owner{AnonymousToken: a.AnonymousToken}
}

// Service coordinates validation, quota, totals and persistence.
type Service struct {
	repo      services.InvoiceRepository
	quota     *quota.Tracker
	validator *Validator
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates an invoice service. A nil tracker disables the
// anonymous quota gate, which is what the HTTP API uses.
func NewService(repo services.InvoiceRepository, tracker *quota.Tracker) *Service {
	return &Service{
		repo:      repo,
		quota:     tracker,
		validator: NewValidator(),
		now:       time.Now,
		log:       logger.WithComponent("invoice-service"),
	}
}

// Create validates form and stores a new draft invoice owned by actor.
func (s *Service) Create(ctx context.Context, actor Actor, form FormData) (*models.Invoice, error) {
	const op = "Create"

	if err := s.validator.Validate(&form); err != nil {
		return nil, err
	}

	if s.quota != nil && !actor.IsAuthenticated() {
		if !s.quota.CanCreate(false) {
			s.log.Info().
				Int("count", s.quota.Count()).
				Msg("Anonymous invoice quota exhausted")
			return nil, ErrQuotaExceeded
		}
		if actor.AnonymousToken == "" {
			actor.AnonymousToken = s.quota.GetOrCreateToken()
		}
	}

	owner := actor.Owner()
	if owner.IsZero() {
		return nil, NewError(op, ErrNotOwner, "no user or anonymous token")
	}

	items := make([]models.LineItem, len(form.Items))
	for i, item := range form.Items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.Amount = LineAmount(item)
		items[i] = item
	}
	totals := ComputeTotals(items, form.TaxRate)

	number := form.InvoiceNumber
	if number == "" {
		number = GenerateInvoiceNumber()
	}

	inv := &models.Invoice{
		InvoiceNumber: number,
		Status:        models.StatusDraft,
		ClientName:    form.ClientName,
		ClientEmail:   models.StringPtr(form.ClientEmail),
		FromName:      models.StringPtr(form.FromName),
		FromEmail:     models.StringPtr(form.FromEmail),
		Items:         items,
		Subtotal:      totals.Subtotal,
		TaxRate:       form.TaxRate,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		Currency:      form.Currency,
		Notes:         models.StringPtr(form.Notes),
		DueDate:       models.StringPtr(form.DueDate),
	}
	if owner.UserID != "" {
		inv.UserID = models.StringPtr(owner.UserID)
	} else {
		inv.AnonymousToken = models.StringPtr(owner.AnonymousToken)
	}

	created, err := s.repo.Create(ctx, inv)
	if err != nil {
		s.log.Error().Err(err).Str("invoice_number", number).Msg("Failed to store invoice")
		return nil, NewError(op, err, "insert failed")
	}

	if s.quota != nil && !actor.IsAuthenticated() {
		s.quota.Increment()
	}

	s.log.Info().
		Str("invoice_id", created.ID).
		Str("invoice_number", created.InvoiceNumber).
		Float64("total", created.Total).
		Str("currency", created.Currency).
		Bool("anonymous", !actor.IsAuthenticated()).
		Msg("Invoice created")

	return created, nil
}

// List returns the actor's invoices, newest first, optionally narrowed to
// one status. An actor with no identity gets an empty list.
func (s *Service) List(ctx context.Context, actor Actor, status *models.Status) ([]models.Invoice, error) {
	const op = "List"

	owner := actor.Owner()
	if owner.IsZero() {
		return []models.Invoice{}, nil
	}

	invoices, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, NewError(op, err, "")
	}
	return FilterByStatus(invoices, status), nil
}

// Get returns any invoice by id. Share links are readable by anyone who
// has them.
func (s *Service) Get(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, &Error{Op: "Get", Err: err, InvoiceID: id}
	}
	return inv, nil
}

// SetStatus moves an invoice owned by actor to status.
func (s *Service) SetStatus(ctx context.Context, actor Actor, id string, status models.Status) (*models.Invoice, error) {
	const op = "SetStatus"

	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, &Error{Op: op, Err: err, InvoiceID: id}
	}
	if !IsOwner(actor, inv) {
		return nil, &Error{Op: op, Err: ErrNotOwner, InvoiceID: id}
	}

	update, err := Transition(inv, status, s.now().UTC())
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, update)
	if err != nil {
		return nil, &Error{Op: op, Err: err, InvoiceID: id}
	}

	s.log.Info().
		Str("invoice_id", id).
		Str("from", inv.Status.String()).
		Str("to", update.Status.String()).
		Msg("Invoice status changed")

	return updated, nil
}

// IsOwner reports whether actor owns inv: by user id when signed in, by
// anonymous token otherwise.
func IsOwner(actor Actor, inv *models.Invoice) bool {
	if inv == nil {
		return false
	}
	if actor.IsAuthenticated() {
		return models.Deref(inv.UserID) == actor.UserID
	}
	return actor.AnonymousToken != "" && models.Deref(inv.AnonymousToken) == actor.AnonymousToken
}

