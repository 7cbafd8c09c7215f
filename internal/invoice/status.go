package invoice

import (
	"fmt"
	"time"

	"simpleinvoice/pkg/models"
)

// Transition computes the columns to write when inv moves to next at time now.
//
// Moving to paid stamps PaidAt with now (also when already paid). Leaving paid
// clears PaidAt. Any other move keeps the current PaidAt.
func Transition(inv *models.Invoice, next models.Status, now time.Time) (models.StatusUpdate, error) {
	if !next.Valid() {
		return models.StatusUpdate{}, fmt.Errorf("%w: got %q", ErrInvalidStatus, string(next))
	}

	update := models.StatusUpdate{
		Status:    next,
		PaidAt:    inv.PaidAt,
		UpdatedAt: now,
	}

	switch {
	case next == models.StatusPaid:
		paidAt := now
		update.PaidAt = &paidAt
	case inv.Status == models.StatusPaid:
		update.PaidAt = nil
	}

	return update, nil
}

// Apply copies a status update onto inv.
func Apply(inv *models.Invoice, update models.StatusUpdate) {
	inv.Status = update.Status
	inv.PaidAt = update.PaidAt
	inv.UpdatedAt = update.UpdatedAt
}
