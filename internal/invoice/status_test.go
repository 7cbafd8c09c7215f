package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"simpleinvoice/pkg/models"
)

func TestTransition(t *testing.T) {
	earlier := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		from       models.Status
		paidAt     *time.Time
		to         models.Status
		wantPaidAt *time.Time
	}{
		{"draft to sent keeps empty paid_at", models.StatusDraft, nil, models.StatusSent, nil},
		{"sent to paid stamps now", models.StatusSent, nil, models.StatusPaid, &now},
		{"paid to paid restamps", models.StatusPaid, &earlier, models.StatusPaid, &now},
		{"paid to sent clears", models.StatusPaid, &earlier, models.StatusSent, nil},
		{"paid to draft clears", models.StatusPaid, &earlier, models.StatusDraft, nil},
		{"sent to overdue keeps", models.StatusSent, &earlier, models.StatusOverdue, &earlier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &models.Invoice{Status: tt.from, PaidAt: tt.paidAt}

			update, err := Transition(inv, tt.to, now)
			require.NoError(t, err)

			assert.Equal(t, tt.to, update.Status)
			assert.Equal(t, now, update.UpdatedAt)
			if tt.wantPaidAt == nil {
				assert.Nil(t, update.PaidAt)
			} else {
				require.NotNil(t, update.PaidAt)
				assert.True(t, tt.wantPaidAt.Equal(*update.PaidAt))
			}
		})
	}
}

func TestTransition_RejectsUnknownStatus(t *testing.T) {
	_, err := Transition(&models.Invoice{Status: models.StatusDraft}, models.Status("cancelled"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	status, err := models.ParseStatus(" Paid ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, status)

	_, err = models.ParseStatus("void")
	assert.Error(t, err)
}
