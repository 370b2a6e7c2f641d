package models

// CreateBookingInput is the request body for opening a booking.
type CreateBookingInput struct {
	VenueID    string   `json:"venue_id" binding:"required"`
	Date       string   `json:"date" binding:"required"` // "YYYY-MM-DD"
	Start      string   `json:"start" binding:"required"` // "HH:MM"
	End        string   `json:"end" binding:"required"`   // "HH:MM"
	ServiceIDs []string `json:"service_ids"`
}

// InitiatePaymentInput opens a transaction for a booking. Amount is the
// client's declared total and must match the booking's computed price.
type InitiatePaymentInput struct {
	BookingID string `json:"booking_id" binding:"required"`
	Amount    Money  `json:"amount" binding:"required"`
}

// VerifyPaymentInput reconciles a transaction against the gateway.
type VerifyPaymentInput struct {
	TransactionRef string `json:"transaction_ref" binding:"required"`
}

// UpdateBookingStatusInput is the administrative status transition body.
type UpdateBookingStatusInput struct {
	Status BookingStatus `json:"status" binding:"required"`
}
