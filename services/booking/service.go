package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "venuebook/database/repository/booking"
	transactionRepo "venuebook/database/repository/transaction"
	venueRepo "venuebook/database/repository/venue"
	"venuebook/models"
	"venuebook/services/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates the slot and services, prices the booking, checks
// the slot against confirmed bookings and persists it as PENDING/PENDING.
// Nothing is written when any validation fails.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, principal models.Principal, input models.CreateBookingInput) (*models.Booking, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}

	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, input.Date)
	}
	start, err := models.ParseTimeOfDay(input.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	end, err := models.ParseTimeOfDay(input.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	slot := models.Slot{Start: start, End: end}
	if slot.DurationMinutes() <= 0 {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, start, end)
	}

	venue, err := s.VenueRepo.GetByID(ctx, input.VenueID)
	if errors.Is(err, venueRepo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVenueNotFound, input.VenueID)
	}
	if err != nil {
		return nil, fmt.Errorf("venue lookup failed: %w", err)
	}

	selected, prices, err := resolveServices(venue, input.ServiceIDs, slot.DurationMinutes())
	if err != nil {
		return nil, err
	}

	conflict, err := s.conflicts.HasConflict(ctx, venue.ID, input.Date, slot)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fmt.Errorf("%w: %s %s-%s", ErrSlotTaken, input.Date, start, end)
	}

	total, err := ComputeTotal(venue.BasePricePerHour, start, end, prices)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		VenueID:       venue.ID,
		UserID:        principal.ID,
		Date:          input.Date,
		Start:         start.Minutes(),
		End:           end.Minutes(),
		Services:      selected,
		TotalPrice:    total,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Now(),
	}
	if err := s.BookingRepo.Insert(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.publishEvent(ctx, models.BookingEvent{
		Type:        models.EventBookingApplied,
		BookingID:   booking.ID,
		VenueID:     venue.ID,
		RecipientID: venue.OwnerID,
		Message:     fmt.Sprintf("New booking request for %s on %s (%s-%s)", venue.Name, booking.Date, start, end),
	})

	return booking, nil
}

// resolveServices snapshots venue-specific prices for the requested services.
// Hourly-priced services are prorated over the slot the same way the base
// rate is; fixed services charge flat.
func resolveServices(venue *models.Venue, serviceIDs []string, durationMinutes int) ([]models.SelectedService, []models.Money, error) {
	selected := make([]models.SelectedService, 0, len(serviceIDs))
	prices := make([]models.Money, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		offering, ok := venue.FindService(id)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrServiceNotOffered, id)
		}
		price := offering.Price
		if offering.Category == models.PricingHourly {
			scaled, err := models.MulMoney(offering.Price, int64(durationMinutes))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
			}
			price = (scaled + 30) / 60
		}
		selected = append(selected, models.SelectedService{
			ServiceID: offering.ServiceID,
			Name:      offering.Name,
			Price:     price,
		})
		prices = append(prices, price)
	}
	return selected, prices, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, principal models.Principal, bookingID string) (*models.Booking, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}
	if err := s.authorizeBookingAccess(ctx, principal, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *DefaultBookingService) ListUserBookings(ctx context.Context, principal models.Principal) ([]models.Booking, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.BookingRepo.GetByUser(ctx, principal.ID)
}

func (s *DefaultBookingService) ListVenueBookings(ctx context.Context, principal models.Principal, venueID, date string) ([]models.Booking, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}
	venue, err := s.VenueRepo.GetByID(ctx, venueID)
	if errors.Is(err, venueRepo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVenueNotFound, venueID)
	}
	if err != nil {
		return nil, err
	}
	if principal.Role != models.RoleAdmin && principal.ID != venue.OwnerID {
		return nil, ErrNotOwner
	}
	return s.BookingRepo.GetByVenueAndDate(ctx, venueID, date)
}

// VenueAvailability projects the PAID bookings for a venue/date as occupied
// slots so clients can render free time. PENDING bookings are deliberately
// invisible: they do not reserve the slot.
func (s *DefaultBookingService) VenueAvailability(ctx context.Context, venueID, date string) ([]models.Slot, error) {
	if _, err := s.VenueRepo.GetByID(ctx, venueID); err != nil {
		if errors.Is(err, venueRepo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrVenueNotFound, venueID)
		}
		return nil, err
	}
	bookings, err := s.BookingRepo.GetByVenueAndDate(ctx, venueID, date)
	if err != nil {
		return nil, err
	}
	occupied := make([]models.Slot, 0, len(bookings))
	for i := range bookings {
		if bookings[i].PaymentStatus == models.PaymentPaid {
			occupied = append(occupied, bookings[i].Slot())
		}
	}
	return occupied, nil
}

// TransitionBooking is the administrative path: owner/admin rejection,
// cancellation and post-visit bookkeeping. PENDING→APPROVED is payment-gated
// and never allowed here.
func (s *DefaultBookingService) TransitionBooking(ctx context.Context, principal models.Principal, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if to == models.BookingApproved {
		return nil, fmt.Errorf("%w: approval requires a paid transaction", ErrInvalidTransition)
	}

	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}

	venue, err := s.VenueRepo.GetByID(ctx, booking.VenueID)
	if err != nil {
		return nil, fmt.Errorf("venue lookup failed: %w", err)
	}

	isAdmin := principal.Role == models.RoleAdmin
	isVenueOwner := principal.ID == venue.OwnerID
	isSelfCancel := principal.ID == booking.UserID && to == models.BookingCancelled
	if !isAdmin && !isVenueOwner && !isSelfCancel {
		return nil, ErrNotOwner
	}

	if !booking.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, booking.Status, to)
	}
	if err := s.BookingRepo.UpdateStatus(ctx, bookingID, booking.Status, to); err != nil {
		if errors.Is(err, bookingRepo.ErrInvalidState) {
			return nil, fmt.Errorf("%w: booking moved concurrently", ErrInvalidTransition)
		}
		return nil, err
	}
	booking.Status = to

	if to == models.BookingRejected {
		s.publishEvent(ctx, models.BookingEvent{
			Type:        models.EventBookingRejected,
			BookingID:   booking.ID,
			VenueID:     booking.VenueID,
			RecipientID: booking.UserID,
			Message:     fmt.Sprintf("Your booking for %s was declined", booking.Date),
		})
	}
	return booking, nil
}

// InitiatePayment opens the single active transaction for a booking. The
// declared amount must equal the booking's computed total.
func (s *DefaultBookingService) InitiatePayment(ctx context.Context, principal models.Principal, input models.InitiatePaymentInput) (string, error) {
	if !principal.Authenticated() {
		return "", ErrUnauthenticated
	}

	booking, err := s.BookingRepo.GetByID(ctx, input.BookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrBookingNotFound, input.BookingID)
	}
	if err != nil {
		return "", err
	}
	if booking.UserID != principal.ID {
		return "", ErrNotOwner
	}
	if booking.Status != models.BookingPending || booking.PaymentStatus != models.PaymentPending {
		return "", fmt.Errorf("%w: booking is %s/%s", ErrInvalidTransition, booking.Status, booking.PaymentStatus)
	}
	if input.Amount != booking.TotalPrice {
		return "", fmt.Errorf("%w: declared %s, booked %s", ErrAmountMismatch, input.Amount, booking.TotalPrice)
	}

	// At most one active transaction per booking: re-initiating hands back
	// the open ref instead of opening a second one.
	if active, err := s.TransactionRepo.FindActiveByBooking(ctx, booking.ID); err == nil {
		return active.Ref, nil
	} else if !errors.Is(err, transactionRepo.ErrNotFound) {
		return "", err
	}

	tx := &models.Transaction{
		Ref:       uuid.New().String(),
		BookingID: booking.ID,
		UserID:    principal.ID,
		Amount:    booking.TotalPrice,
		Status:    models.TransactionPending,
		CreatedAt: time.Now(),
	}
	if err := s.TransactionRepo.Insert(ctx, tx); err != nil {
		if errors.Is(err, transactionRepo.ErrActiveExists) {
			// A concurrent initiate won; hand back its ref.
			if active, findErr := s.TransactionRepo.FindActiveByBooking(ctx, booking.ID); findErr == nil {
				return active.Ref, nil
			}
			return "", fmt.Errorf("%w: booking %s", ErrTransactionClosed, booking.ID)
		}
		return "", fmt.Errorf("failed to open transaction: %w", err)
	}

	s.scheduleSweep(ctx, tx.Ref)
	return tx.Ref, nil
}

// scheduleSweep enqueues the delayed reconciliation for a transaction that
// might otherwise stay PENDING forever if the client never returns from the
// gateway redirect. Best effort; verification stays retryable by the caller.
func (s *DefaultBookingService) scheduleSweep(ctx context.Context, transactionRef string) {
	if s.TaskClient == nil {
		return
	}
	task, opts, err := tasks.NewPaymentSweepTask(transactionRef, time.Now().Add(s.SweepDelay))
	if err != nil {
		s.Logger.Warn("failed to build payment sweep task",
			zap.String("transaction", transactionRef), zap.Error(err))
		return
	}
	if _, err := s.TaskClient.EnqueueContext(ctx, task, opts...); err != nil {
		s.Logger.Warn("failed to schedule payment sweep",
			zap.String("transaction", transactionRef), zap.Error(err))
	}
}

// RequeueStaleSweeps re-schedules reconciliation for transactions that were
// still PENDING past their sweep window, typically after a restart lost the
// in-flight delayed tasks. Duplicate sweeps are harmless.
func (s *DefaultBookingService) RequeueStaleSweeps(ctx context.Context) error {
	stale, err := s.TransactionRepo.FindStalePending(ctx, time.Now().Add(-s.SweepDelay))
	if err != nil {
		return fmt.Errorf("failed to list stale pending transactions: %w", err)
	}
	for i := range stale {
		s.scheduleSweep(ctx, stale[i].Ref)
	}
	if len(stale) > 0 {
		s.Logger.Info("requeued reconciliation for stale transactions", zap.Int("count", len(stale)))
	}
	return nil
}

// publishEvent fires a notification and only logs failures; notification
// delivery never affects booking or transaction state.
func (s *DefaultBookingService) publishEvent(ctx context.Context, event models.BookingEvent) {
	if s.NotificationSvc == nil {
		return
	}
	if err := s.NotificationSvc.PublishBookingEvent(ctx, event); err != nil {
		s.Logger.Warn("failed to publish booking event",
			zap.String("type", event.Type), zap.String("booking", event.BookingID), zap.Error(err))
	}
}

func (s *DefaultBookingService) authorizeBookingAccess(ctx context.Context, principal models.Principal, booking *models.Booking) error {
	if principal.Role == models.RoleAdmin || principal.ID == booking.UserID {
		return nil
	}
	venue, err := s.VenueRepo.GetByID(ctx, booking.VenueID)
	if err == nil && venue.OwnerID == principal.ID {
		return nil
	}
	return ErrNotOwner
}
