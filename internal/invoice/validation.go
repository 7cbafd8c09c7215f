package invoice

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"simpleinvoice/internal/format"
	"simpleinvoice/internal/logger"
	"simpleinvoice/pkg/models"
)

// FormData is what a user submits to create an invoice.
type FormData struct {
	// InvoiceNumber is optional; a number is generated when empty.
	InvoiceNumber string            `json:"invoice_number" validate:"omitempty,max=32"`
	ClientName    string            `json:"client_name" validate:"required,max=200"`
	ClientEmail   string            `json:"client_email" validate:"omitempty,email"`
	FromName      string            `json:"from_name" validate:"omitempty,max=200"`
	FromEmail     string            `json:"from_email" validate:"omitempty,email"`
	Items         []models.LineItem `json:"items" validate:"required,min=1,dive"`
	TaxRate       float64           `json:"tax_rate" validate:"finite,gte=0,lte=100"`
	Currency      string            `json:"currency" validate:"required,currency"`
	Notes         string            `json:"notes" validate:"omitempty,max=2000"`
	DueDate       string            `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// Normalize trims text fields and fills the default currency.
func (f *FormData) Normalize() {
	f.InvoiceNumber = strings.TrimSpace(f.InvoiceNumber)
	f.ClientName = strings.TrimSpace(f.ClientName)
	f.ClientEmail = strings.TrimSpace(f.ClientEmail)
	f.FromName = strings.TrimSpace(f.FromName)
	f.FromEmail = strings.TrimSpace(f.FromEmail)
	f.Notes = strings.TrimSpace(f.Notes)
	f.DueDate = strings.TrimSpace(f.DueDate)
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	if f.Currency == "" {
		f.Currency = format.DefaultCurrency
	}
}

// Validator checks invoice forms before anything is persisted.
type Validator struct {
	validate *validator.Validate
	log      zerolog.Logger
}

// NewValidator creates a form validator with the currency and finite rules
// registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return format.IsSupported(fl.Field().String())
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	})

	return &Validator{
		validate: v,
		log:      logger.WithComponent("invoice-validation"),
	}
}

// Validate normalizes form and checks it. The returned error is a
// ValidationErrors and matches ErrInvalidForm.
func (v *Validator) Validate(form *FormData) error {
	form.Normalize()

	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewError("Validate", err, "validator failed")
	}

	result := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		result = append(result, NewValidationError(fieldPath(fe), fe.Value(), describe(fe)))
	}

	v.log.Debug().
		Int("errors", len(result)).
		Str("first_field", result[0].Field).
		Msg("Invoice form rejected")

	return result
}

// fieldPath strips the struct name from the namespace: "FormData.items[0].rate" -> "items[0].rate".
func fieldPath(fe validator.FieldError) string {
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "currency":
		return "is not a supported currency"
	case "finite":
		return "must be a finite number"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
