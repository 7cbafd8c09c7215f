package invoice

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"simpleinvoice/pkg/models"
)

func validForm() FormData {
	return FormData{
		ClientName:  "Globex",
		ClientEmail: "ap@globex.test",
		FromName:    "Jane Doe",
		FromEmail:   "jane@example.test",
		Items: []models.LineItem{
			{Description: "Design work", Quantity: 2, Rate: 50},
		},
		TaxRate:  8.5,
		Currency: "usd",
		DueDate:  "2026-11-30",
	}
}

func TestValidate_AcceptsValidForm(t *testing.T) {
	form := validForm()

	require.NoError(t, NewValidator().Validate(&form))
	assert.Equal(t, "USD", form.Currency, "currency is normalized")
}

func TestValidate_DefaultsCurrency(t *testing.T) {
	form := validForm()
	form.Currency = "  "

	require.NoError(t, NewValidator().Validate(&form))
	assert.Equal(t, "USD", form.Currency)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FormData)
		field  string
	}{
		{"missing client", func(f *FormData) { f.ClientName = "   " }, "client_name"},
		{"bad client email", func(f *FormData) { f.ClientEmail = "not-an-email" }, "client_email"},
		{"bad from email", func(f *FormData) { f.FromEmail = "jane@" }, "from_email"},
		{"no items", func(f *FormData) { f.Items = nil }, "items"},
		{"negative rate", func(f *FormData) { f.Items[0].Rate = -1 }, "items[0].rate"},
		{"negative quantity", func(f *FormData) { f.Items[0].Quantity = -2 }, "items[0].quantity"},
		{"tax above 100", func(f *FormData) { f.TaxRate = 150 }, "tax_rate"},
		{"negative tax", func(f *FormData) { f.TaxRate = -1 }, "tax_rate"},
		{"infinite quantity", func(f *FormData) { f.Items[0].Quantity = math.Inf(1) }, "items[0].quantity"},
		{"NaN rate", func(f *FormData) { f.Items[0].Rate = math.NaN() }, "items[0].rate"},
		{"infinite rate", func(f *FormData) { f.Items[0].Rate = math.Inf(1) }, "items[0].rate"},
		{"NaN tax", func(f *FormData) { f.TaxRate = math.NaN() }, "tax_rate"},
		{"unsupported currency", func(f *FormData) { f.Currency = "CHF" }, "currency"},
		{"malformed due date", func(f *FormData) { f.DueDate = "30/11/2026" }, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := NewValidator().Validate(&form)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidForm)

			var fieldErrs ValidationErrors
			require.True(t, errors.As(err, &fieldErrs))
			require.NotEmpty(t, fieldErrs)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
			assert.NotEmpty(t, fieldErrs[0].Message)
		})
	}
}

func TestValidate_CollectsEveryField(t *testing.T) {
	form := FormData{Currency: "XYZ", TaxRate: 101}

	err := NewValidator().Validate(&form)

	var fieldErrs ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"client_name", "items", "tax_rate", "currency"}, fields)
}
