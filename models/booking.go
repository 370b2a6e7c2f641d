package models

import "time"

// BookingStatus is the booking lifecycle state. Progression is monotonic:
// a booking never returns to PENDING once it has left it.
type BookingStatus string

const (
	BookingPending     BookingStatus = "PENDING"
	BookingApproved    BookingStatus = "APPROVED"
	BookingRejected    BookingStatus = "REJECTED"
	BookingCancelled   BookingStatus = "CANCELLED"
	BookingCompleted   BookingStatus = "COMPLETED"
	BookingNoShow      BookingStatus = "NO_SHOW"
	BookingRescheduled BookingStatus = "RESCHEDULED"
)

// CanTransitionTo enforces the booking state machine. PENDING→APPROVED is
// reserved for payment verification; the administrative moves are
// PENDING→REJECTED/CANCELLED and APPROVED→COMPLETED/NO_SHOW/RESCHEDULED.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	switch s {
	case BookingPending:
		return to == BookingApproved || to == BookingRejected || to == BookingCancelled
	case BookingApproved:
		return to == BookingCompleted || to == BookingNoShow || to == BookingRescheduled || to == BookingCancelled
	default:
		return false
	}
}

// PaymentStatus is the payment side of a booking, gated by transaction
// reconciliation.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// SelectedService is a service chosen at booking time. Price is a snapshot:
// later catalog changes never move an existing booking's total.
type SelectedService struct {
	ServiceID string `bson:"service_id" json:"service_id"`
	Name      string `bson:"name" json:"name"`
	Price     Money  `bson:"price" json:"price"`
}

// Booking is a reserved time slot at a venue. Start and End are minutes from
// midnight on Date; TotalPrice is computed exactly once at creation.
type Booking struct {
	ID            string            `bson:"id" json:"id"`
	VenueID       string            `bson:"venue_id" json:"venue_id"`
	UserID        string            `bson:"user_id" json:"user_id"`
	Date          string            `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start         int               `bson:"start" json:"start"`
	End           int               `bson:"end" json:"end"`
	Services      []SelectedService `bson:"services" json:"services"`
	TotalPrice    Money             `bson:"total_price" json:"total_price"`
	Status        BookingStatus     `bson:"status" json:"status"`
	PaymentStatus PaymentStatus     `bson:"payment_status" json:"payment_status"`
	// TransactionRef records the transaction that settled the booking, so
	// duplicate verification of that transaction stays idempotent while any
	// other transaction is refused.
	TransactionRef string    `bson:"transaction_ref,omitempty" json:"transaction_ref,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// Slot reconstructs the booked interval from the stored minute offsets.
func (b *Booking) Slot() Slot {
	return Slot{
		Start: TimeOfDay{Hour: b.Start / 60, Minute: b.Start % 60},
		End:   TimeOfDay{Hour: b.End / 60, Minute: b.End % 60},
	}
}
