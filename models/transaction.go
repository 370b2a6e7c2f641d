package models

import "time"

// TransactionStatus is one-directional: PENDING terminates exactly once as
// PAID or FAILED and never moves again.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionPaid    TransactionStatus = "PAID"
	TransactionFailed  TransactionStatus = "FAILED"
)

// Terminal reports whether the status can no longer change.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionPaid || s == TransactionFailed
}

// Transaction is one payment attempt for a booking. Ref is the
// externally-visible token the gateway is queried by; GatewayRef is the
// gateway's own reference, set only on successful verification. Amount equals
// the booking's total price at the time the transaction was opened.
type Transaction struct {
	Ref        string            `bson:"ref" json:"ref"`
	BookingID  string            `bson:"booking_id" json:"booking_id"`
	UserID     string            `bson:"user_id" json:"user_id"`
	Amount     Money             `bson:"amount" json:"amount"`
	Status     TransactionStatus `bson:"status" json:"status"`
	GatewayRef string            `bson:"gateway_ref,omitempty" json:"gateway_ref,omitempty"`
	CreatedAt  time.Time         `bson:"created_at" json:"created_at"`
}
