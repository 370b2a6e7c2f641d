package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "venuebook/database/repository/booking"
	transactionRepo "venuebook/database/repository/transaction"
	"venuebook/models"
	"venuebook/services/payment"

	"go.uber.org/zap"
)

// VerifyPayment reconciles a transaction with the gateway on behalf of its
// owner. Safe to call zero, one or many times: once the transaction has
// terminated, the recorded outcome is returned without re-contacting the
// gateway or touching the booking again.
func (s *DefaultBookingService) VerifyPayment(ctx context.Context, principal models.Principal, transactionRef string) (*VerificationResult, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}

	tx, err := s.TransactionRepo.GetByRef(ctx, transactionRef)
	if errors.Is(err, transactionRepo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, transactionRef)
	}
	if err != nil {
		return nil, err
	}
	if tx.UserID != principal.ID && principal.Role != models.RoleAdmin {
		return nil, ErrNotOwner
	}

	return s.reconcile(ctx, tx)
}

// ReconcilePending is the worker-side retry for a possibly stale transaction.
// Settled transactions and definitive gateway answers end the retry cycle; a
// gateway outage propagates so the task queue backs off and tries again.
func (s *DefaultBookingService) ReconcilePending(ctx context.Context, transactionRef string) error {
	tx, err := s.TransactionRepo.GetByRef(ctx, transactionRef)
	if errors.Is(err, transactionRepo.ErrNotFound) {
		s.Logger.Warn("sweep found no transaction", zap.String("transaction", transactionRef))
		return nil
	}
	if err != nil {
		return err
	}
	if tx.Status.Terminal() {
		return nil
	}

	_, err = s.reconcile(ctx, tx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrVerificationUnavailable):
		return err
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrTransactionClosed):
		// The transaction was failed closed; nothing left to retry.
		s.Logger.Info("sweep closed transaction after conflict",
			zap.String("transaction", transactionRef))
		return nil
	default:
		s.Logger.Error("sweep reconciliation failed",
			zap.String("transaction", transactionRef), zap.Error(err))
		return err
	}
}

// reconcile drives one transaction through gateway reconciliation. The
// gateway is authoritative for whether money moved; local state only follows.
func (s *DefaultBookingService) reconcile(ctx context.Context, tx *models.Transaction) (*VerificationResult, error) {
	if tx.Status.Terminal() {
		return &VerificationResult{
			TransactionRef: tx.Ref,
			Status:         tx.Status,
			GatewayRef:     tx.GatewayRef,
			Settled:        true,
		}, nil
	}

	status, err := s.Gateway.CheckStatus(ctx, tx.Ref, tx.Amount)
	if err != nil {
		// Unreachable is not failed; the caller may retry against the same ref.
		return nil, fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}

	switch {
	case status.Status == payment.StatusComplete:
		return s.settlePaid(ctx, tx, status)
	case status.Definitive():
		return s.settleFailed(ctx, tx, status)
	default:
		// Payment still in flight at the gateway; leave everything PENDING.
		s.Logger.Info("gateway reports transaction still pending",
			zap.String("transaction", tx.Ref), zap.String("gateway_status", status.Status))
		return &VerificationResult{
			TransactionRef: tx.Ref,
			Status:         models.TransactionPending,
			Settled:        false,
		}, nil
	}
}

// settlePaid applies a confirmed payment: the booking transition re-checks
// the slot so that of two racing payers only the first reaches APPROVED; the
// loser's transaction is failed closed and surfaced as a conflict.
func (s *DefaultBookingService) settlePaid(ctx context.Context, tx *models.Transaction, status *payment.StatusResult) (*VerificationResult, error) {
	err := s.BookingRepo.MarkPaidIfSlotFree(ctx, tx.BookingID, tx.Ref)
	switch {
	case err == nil:
		// fall through to closing the transaction
	case errors.Is(err, bookingRepo.ErrSlotConflict):
		if _, closeErr := s.TransactionRepo.Close(ctx, tx.Ref, models.TransactionFailed, ""); closeErr != nil &&
			!errors.Is(closeErr, transactionRepo.ErrAlreadyClosed) {
			return nil, fmt.Errorf("failed to close conflicted transaction: %w", closeErr)
		}
		return nil, fmt.Errorf("%w: another paid booking won the slot", ErrSlotTaken)
	case errors.Is(err, bookingRepo.ErrAlreadyPaid):
		// A different transaction settled this booking; this one must not
		// ride on that payment.
		if _, closeErr := s.TransactionRepo.Close(ctx, tx.Ref, models.TransactionFailed, ""); closeErr != nil &&
			!errors.Is(closeErr, transactionRepo.ErrAlreadyClosed) {
			return nil, fmt.Errorf("failed to close superseded transaction: %w", closeErr)
		}
		return nil, fmt.Errorf("%w: booking settled by another transaction", ErrTransactionClosed)
	case errors.Is(err, bookingRepo.ErrNotFound), errors.Is(err, bookingRepo.ErrInvalidState):
		// A paid transaction pointing at a missing or non-pending booking is a
		// data-integrity bug; abort without touching committed state.
		s.Logger.Error("paid transaction references inconsistent booking",
			zap.String("transaction", tx.Ref), zap.String("booking", tx.BookingID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	default:
		return nil, err
	}

	closed, err := s.TransactionRepo.Close(ctx, tx.Ref, models.TransactionPaid, status.RefID)
	if errors.Is(err, transactionRepo.ErrAlreadyClosed) {
		// A concurrent verify beat us to the close; report its outcome and
		// skip the duplicate notification.
		current, getErr := s.TransactionRepo.GetByRef(ctx, tx.Ref)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status != models.TransactionPaid {
			s.Logger.Error("booking approved but transaction closed as failed",
				zap.String("transaction", tx.Ref), zap.String("status", string(current.Status)))
			return nil, fmt.Errorf("%w: transaction %s closed as %s after approval",
				ErrInvariantViolation, tx.Ref, current.Status)
		}
		return &VerificationResult{
			TransactionRef: current.Ref,
			Status:         current.Status,
			GatewayRef:     current.GatewayRef,
			Settled:        true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to close transaction: %w", err)
	}

	s.notifyApproved(ctx, tx.BookingID)

	return &VerificationResult{
		TransactionRef: closed.Ref,
		Status:         closed.Status,
		GatewayRef:     closed.GatewayRef,
		Settled:        true,
	}, nil
}

// settleFailed records a definitive non-complete gateway answer. The booking
// stays PENDING/PENDING; it is never silently approved or torn down here.
func (s *DefaultBookingService) settleFailed(ctx context.Context, tx *models.Transaction, status *payment.StatusResult) (*VerificationResult, error) {
	closed, err := s.TransactionRepo.Close(ctx, tx.Ref, models.TransactionFailed, "")
	if errors.Is(err, transactionRepo.ErrAlreadyClosed) {
		current, getErr := s.TransactionRepo.GetByRef(ctx, tx.Ref)
		if getErr != nil {
			return nil, getErr
		}
		return &VerificationResult{
			TransactionRef: current.Ref,
			Status:         current.Status,
			GatewayRef:     current.GatewayRef,
			Settled:        true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to close transaction: %w", err)
	}

	s.Logger.Info("transaction failed at gateway",
		zap.String("transaction", tx.Ref), zap.String("gateway_status", status.Status))

	return &VerificationResult{
		TransactionRef: closed.Ref,
		Status:         closed.Status,
		Settled:        true,
	}, nil
}

// notifyApproved fans out the approval to the customer and the venue owner.
func (s *DefaultBookingService) notifyApproved(ctx context.Context, bookingID string) {
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.Logger.Warn("approved booking lookup for notification failed",
			zap.String("booking", bookingID), zap.Error(err))
		return
	}
	slot := booking.Slot()
	s.publishEvent(ctx, models.BookingEvent{
		Type:        models.EventBookingApproved,
		BookingID:   booking.ID,
		VenueID:     booking.VenueID,
		RecipientID: booking.UserID,
		Message:     fmt.Sprintf("Payment received; your booking on %s (%s-%s) is confirmed", booking.Date, slot.Start, slot.End),
	})
	if venue, err := s.VenueRepo.GetByID(ctx, booking.VenueID); err == nil {
		s.publishEvent(ctx, models.BookingEvent{
			Type:        models.EventBookingApproved,
			BookingID:   booking.ID,
			VenueID:     booking.VenueID,
			RecipientID: venue.OwnerID,
			Message:     fmt.Sprintf("Booking on %s (%s-%s) is paid and confirmed", booking.Date, slot.Start, slot.End),
		})
	}
}
