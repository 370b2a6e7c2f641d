package models

import "time"

// Booking event types carried by notifications.
const (
	EventBookingApplied  = "booking_applied"
	EventBookingApproved = "booking_approved"
	EventBookingRejected = "booking_rejected"
)

// Notification is an inbox entry appended to a user document by the
// notification worker. Delivery is fire-and-forget; booking and transaction
// state never depend on it.
type Notification struct {
	ID        string            `bson:"id" json:"id"`
	Type      string            `bson:"type" json:"type"`
	Message   string            `bson:"message" json:"message"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool              `bson:"read" json:"read"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}

// BookingEvent is the payload enqueued when a booking changes state.
type BookingEvent struct {
	Type        string `json:"type"`
	BookingID   string `json:"booking_id"`
	VenueID     string `json:"venue_id"`
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message"`
}
