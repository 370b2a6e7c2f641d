package booking

import (
	"context"
	"fmt"

	bookingRepo "venuebook/database/repository/booking"
	"venuebook/models"
)

// ConflictChecker tests a candidate slot against confirmed bookings. Only
// PAID bookings reserve a slot; a PENDING booking whose payment never lands
// must not block other customers. The race this opens between two concurrent
// payers is closed again at mark-paid time, not here.
type ConflictChecker struct {
	Repo bookingRepo.BookingRepository
}

// HasConflict reports whether any PAID booking for the venue and date
// overlaps the candidate slot. Touching endpoints are not a conflict.
func (c *ConflictChecker) HasConflict(ctx context.Context, venueID, date string, candidate models.Slot) (bool, error) {
	count, err := c.Repo.CountOverlapping(ctx, venueID, date,
		candidate.Start.Minutes(), candidate.End.Minutes(), models.PaymentPaid, "")
	if err != nil {
		return false, fmt.Errorf("conflict check failed: %w", err)
	}
	return count > 0, nil
}
