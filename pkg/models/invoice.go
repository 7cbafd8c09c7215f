package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusDraft, StatusSent, StatusPaid, StatusOverdue}

// ParseStatus converts user input into a Status, rejecting anything outside the enumeration.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown invoice status %q (must be one of draft, sent, paid, overdue)", s)
	}
	return status, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// LineItem is one billable row on an invoice.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" validate:"finite,gte=0"`
	Rate        float64 `json:"rate" validate:"finite,gte=0"`
	Amount      float64 `json:"amount"` // cached round2(Quantity*Rate), display only
}

type Invoice struct {
	// Identity and ownership. Exactly one of UserID and AnonymousToken is set.
	ID             string  `json:"id"`
	UserID         *string `json:"user_id"`
	AnonymousToken *string `json:"anonymous_token"`
	InvoiceNumber  string  `json:"invoice_number"`
	Status         Status  `json:"status"`

	// Parties
	ClientName  string  `json:"client_name"`
	ClientEmail *string `json:"client_email"`
	FromName    *string `json:"from_name"`
	FromEmail   *string `json:"from_email"`

	Items []LineItem `json:"items"`

	// Amounts, all rounded to two decimals
	Subtotal  float64 `json:"subtotal"`
	TaxRate   float64 `json:"tax_rate"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency"`

	Notes   *string    `json:"notes"`
	DueDate *string    `json:"due_date"` // YYYY-MM-DD
	PaidAt  *time.Time `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owner selects the invoices belonging to one identity.
type Owner struct {
	UserID         string
	AnonymousToken string
}

// IsZero reports whether the owner identifies nobody.
func (o Owner) IsZero() bool {
	return o.UserID == "" && o.AnonymousToken == ""
}

// StatusUpdate is the set of columns written by a status transition.
type StatusUpdate struct {
	Status    Status     `json:"status"`
	PaidAt    *time.Time `json:"paid_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// User is an authenticated account as reported by the auth backend.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// StringPtr returns nil for empty strings so optional columns are stored as NULL.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
