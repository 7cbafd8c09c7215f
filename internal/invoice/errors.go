package invoice

import (
	"errors"
	"fmt"
	"strings"
)

// Common invoice errors
var (
	// ErrQuotaExceeded is returned when an anonymous identity has used all of
	// its free invoices.
	ErrQuotaExceeded = errors.New("you've used all 3 free invoices, sign up to create more")

	// ErrNotOwner is returned when someone other than the owner tries to
	// change an invoice.
	ErrNotOwner = errors.New("only the invoice owner can change it")

	// ErrInvalidForm is returned when submitted form data fails validation.
	ErrInvalidForm = errors.New("invalid invoice form")

	// ErrInvalidStatus is returned for a status outside draft, sent, paid, overdue.
	ErrInvalidStatus = errors.New("status must be one of draft, sent, paid, overdue")
)

// Error wraps a failure with the operation that produced it.
type Error struct {
	// Op is the operation that failed (e.g., "Create", "SetStatus").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string

	// InvoiceID is the affected invoice, if known.
	InvoiceID string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("invoice: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	if e.InvoiceID != "" {
		return fmt.Sprintf("invoice: %s failed (invoice: %s): %v", e.Op, e.InvoiceID, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates an Error for op wrapping err.
func NewError(op string, err error, details string) *Error {
	return &Error{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapError wraps err as an *Error unless it already is one.
func WrapError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var invoiceErr *Error
	if errors.As(err, &invoiceErr) {
		return err
	}

	return NewError(op, err, details)
}

// ValidationError represents a rejected form field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Is makes every ValidationError match ErrInvalidForm.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidForm
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ValidationErrors collects every rejected field of one submission.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is makes ValidationErrors match ErrInvalidForm.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidForm
}
