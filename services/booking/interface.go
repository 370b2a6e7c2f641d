package booking

import (
	"context"
	"time"

	bookingRepo "venuebook/database/repository/booking"
	transactionRepo "venuebook/database/repository/transaction"
	venueRepo "venuebook/database/repository/venue"
	"venuebook/models"
	"venuebook/services/notification"
	"venuebook/services/payment"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// VerificationResult is the outcome of reconciling a transaction against the
// gateway. Settled is false while the gateway still reports the payment as in
// flight.
type VerificationResult struct {
	TransactionRef string                   `json:"transaction_ref"`
	Status         models.TransactionStatus `json:"status"`
	GatewayRef     string                   `json:"gateway_ref,omitempty"`
	Settled        bool                     `json:"settled"`
}

// BookingService is the single entry point for the booking–payment engine.
// It is the only component that sees both the booking and transaction ledgers.
type BookingService interface {
	CreateBooking(ctx context.Context, principal models.Principal, input models.CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, principal models.Principal, bookingID string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, principal models.Principal) ([]models.Booking, error)
	ListVenueBookings(ctx context.Context, principal models.Principal, venueID, date string) ([]models.Booking, error)
	VenueAvailability(ctx context.Context, venueID, date string) ([]models.Slot, error)
	TransitionBooking(ctx context.Context, principal models.Principal, bookingID string, to models.BookingStatus) (*models.Booking, error)

	InitiatePayment(ctx context.Context, principal models.Principal, input models.InitiatePaymentInput) (string, error)
	VerifyPayment(ctx context.Context, principal models.Principal, transactionRef string) (*VerificationResult, error)

	// ReconcilePending is the worker-side retry of verification for a
	// transaction that may still be pending; no principal gate since it runs
	// inside the trust boundary.
	ReconcilePending(ctx context.Context, transactionRef string) error

	// RequeueStaleSweeps re-enqueues reconciliation for transactions whose
	// sweep window already elapsed, recovering tasks lost across restarts.
	RequeueStaleSweeps(ctx context.Context) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	BookingRepo     bookingRepo.BookingRepository
	TransactionRepo transactionRepo.TransactionRepository
	VenueRepo       venueRepo.VenueRepository
	Gateway         payment.Gateway
	NotificationSvc notification.NotificationService
	TaskClient      *asynq.Client
	SweepDelay      time.Duration
	Logger          *zap.Logger

	conflicts *ConflictChecker
}

// NewDefaultBookingService wires the orchestrator. TaskClient may be nil in
// tests; the reconciliation sweep is then simply not scheduled.
func NewDefaultBookingService(
	bookings bookingRepo.BookingRepository,
	transactions transactionRepo.TransactionRepository,
	venues venueRepo.VenueRepository,
	gateway payment.Gateway,
	notifier notification.NotificationService,
	taskClient *asynq.Client,
	sweepDelay time.Duration,
	logger *zap.Logger,
) *DefaultBookingService {
	return &DefaultBookingService{
		BookingRepo:     bookings,
		TransactionRepo: transactions,
		VenueRepo:       venues,
		Gateway:         gateway,
		NotificationSvc: notifier,
		TaskClient:      taskClient,
		SweepDelay:      sweepDelay,
		Logger:          logger,
		conflicts:       &ConflictChecker{Repo: bookings},
	}
}
