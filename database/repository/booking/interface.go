package bookingRepo

import (
	"context"
	"errors"

	"venuebook/database"
	"venuebook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors surfaced by repository operations. The service layer maps
// these onto the caller-facing error taxonomy.
var (
	ErrNotFound     = errors.New("booking not found")
	ErrSlotConflict = errors.New("slot conflicts with a paid booking")
	ErrInvalidState = errors.New("booking is not in a state that permits this transition")
	ErrAlreadyPaid  = errors.New("booking already paid through another transaction")
)

// BookingRepository owns all booking mutations. Every state change goes
// through a named operation; there is no ad hoc field assignment path.
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByUser(ctx context.Context, userID string) ([]models.Booking, error)
	GetByVenueAndDate(ctx context.Context, venueID, date string) ([]models.Booking, error)

	// CountOverlapping counts bookings for (venue, date) with the given
	// payment status whose [start,end) interval overlaps the candidate.
	// excludeID, when non-empty, leaves that booking out of the count.
	CountOverlapping(ctx context.Context, venueID, date string, start, end int, payment models.PaymentStatus, excludeID string) (int64, error)

	// MarkPaidIfSlotFree atomically claims the slot and transitions
	// PENDING/PENDING to APPROVED/PAID, recording transactionRef as the
	// settling transaction. Idempotent when the same transaction already
	// settled the booking. Returns ErrSlotConflict when another paid booking
	// won the slot, ErrAlreadyPaid when a different transaction settled this
	// booking, ErrInvalidState when the booking has left PENDING some other
	// way.
	MarkPaidIfSlotFree(ctx context.Context, bookingID, transactionRef string) error

	// UpdateStatus performs an administrative transition guarded on the
	// current status (compare-and-swap); returns ErrInvalidState when the
	// booking is no longer in `from`.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
	// reservations holds one document per (venue, date) that every paid
	// booking for that day writes, so racing mark-paid transactions collide
	// on a shared write instead of committing past each other.
	reservations *mongo.Collection
}

// NewMongoBookingRepo constructs the MongoDB-backed BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	repo := &mongoBookingRepo{
		coll:         database.DB().Collection("bookings"),
		reservations: database.DB().Collection("slot_reservations"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}
