package booking_test

import (
	"context"
	"testing"
	"time"

	"venuebook/models"
	"venuebook/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(t *testing.T, start, end string) models.Slot {
	t.Helper()
	return models.Slot{Start: tod(t, start), End: tod(t, end)}
}

func seedBooking(t *testing.T, repo *fakeBookingRepo, id, venueID, date string, s models.Slot, pay models.PaymentStatus) {
	t.Helper()
	status := models.BookingPending
	if pay == models.PaymentPaid {
		status = models.BookingApproved
	}
	require.NoError(t, repo.Insert(context.Background(), &models.Booking{
		ID:            id,
		VenueID:       venueID,
		UserID:        "user-1",
		Date:          date,
		Start:         s.Start.Minutes(),
		End:           s.End.Minutes(),
		Status:        status,
		PaymentStatus: pay,
		CreatedAt:     time.Now(),
	}))
}

func TestHasConflict_NoBookings(t *testing.T) {
	repo := newFakeBookingRepo()
	checker := booking.ConflictChecker{Repo: repo}

	conflict, err := checker.HasConflict(context.Background(), "venue-1", "2025-06-01", slot(t, "10:00", "12:00"))
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestHasConflict_TouchingEndpointsAreCompatible(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(t, repo, "b1", "venue-1", "2025-06-01", slot(t, "10:00", "12:00"), models.PaymentPaid)
	checker := booking.ConflictChecker{Repo: repo}

	conflict, err := checker.HasConflict(context.Background(), "venue-1", "2025-06-01", slot(t, "12:00", "14:00"))
	require.NoError(t, err)
	assert.False(t, conflict, "slot starting exactly when a paid one ends must not conflict")

	conflict, err = checker.HasConflict(context.Background(), "venue-1", "2025-06-01", slot(t, "08:00", "10:00"))
	require.NoError(t, err)
	assert.False(t, conflict, "slot ending exactly when a paid one starts must not conflict")
}

func TestHasConflict_OverlapWithPaidBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(t, repo, "b1", "venue-1", "2025-06-01", slot(t, "10:00", "12:00"), models.PaymentPaid)
	checker := booking.ConflictChecker{Repo: repo}

	conflict, err := checker.HasConflict(context.Background(), "venue-1", "2025-06-01", slot(t, "11:00", "13:00"))
	require.NoError(t, err)
	assert.True(t, conflict)
}

func TestHasConflict_PendingBookingsDoNotReserve(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(t, repo, "b1", "venue-1", "2025-06-01", slot(t, "10:00", "12:00"), models.PaymentPending)
	checker := booking.ConflictChecker{Repo: repo}

	conflict, err := checker.HasConflict(context.Background(), "venue-1", "2025-06-01", slot(t, "11:00", "13:00"))
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestHasConflict_OtherVenueOrDateIgnored(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(t, repo, "b1", "venue-2", "2025-06-01", slot(t, "10:00", "12:00"), models.PaymentPaid)
	seedBooking(t, repo, "b2", "venue-1", "2025-06-02", slot(t, "10:00", "12:00"), models.PaymentPaid)
	checker := booking.ConflictChecker{Repo: repo}

	conflict, err := checker.HasConflict(context.Background(), "venue-1", "2025-06-01", slot(t, "10:00", "12:00"))
	require.NoError(t, err)
	assert.False(t, conflict)
}
