package tasks

import (
	"encoding/json"
	"time"

	"venuebook/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingEvent = "notification:booking_event"
	TypePaymentSweep = "payment:sweep"
)

// PaymentSweepPayload names the transaction the worker should re-verify.
type PaymentSweepPayload struct {
	TransactionRef string `json:"transaction_ref"`
}

// NewBookingEventTask builds a fire-and-forget notification task.
func NewBookingEventTask(event models.BookingEvent) (*asynq.Task, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingEvent, b), nil
}

// NewPaymentSweepTask builds a delayed reconciliation task for a transaction
// that may still be PENDING at fireAt. Verification is idempotent, so firing
// for an already-settled transaction is harmless.
func NewPaymentSweepTask(transactionRef string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(PaymentSweepPayload{TransactionRef: transactionRef})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePaymentSweep, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
