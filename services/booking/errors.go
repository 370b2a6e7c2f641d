package booking

import (
	"errors"
	"fmt"
)

// Error codes, one per taxonomy class. Handlers map codes to HTTP statuses.
const (
	CodeValidation    = "validationError"
	CodeConflict      = "conflictError"
	CodeAuthorization = "authorizationError"
	CodeNotFound      = "notFound"
	CodeUnavailable   = "externalUnavailable"
	CodeInternal      = "invariantViolation"
)

// Error is the domain error carried across the service boundary.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is match any wrapped instance against the sentinels below by
// code, so call sites don't depend on pointer identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == e.Message
}

func newError(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Expected business outcomes. These are returned to callers as typed results,
// never as panics or transport errors.
var (
	ErrUnauthenticated         = newError(CodeAuthorization, "authentication required")
	ErrNotOwner                = newError(CodeAuthorization, "caller does not own this resource")
	ErrInvalidTimeRange        = newError(CodeValidation, "end time must be after start time")
	ErrInvalidPrice            = newError(CodeValidation, "price components must be valid non-negative amounts")
	ErrInvalidDate             = newError(CodeValidation, "date must be in YYYY-MM-DD form")
	ErrAmountMismatch          = newError(CodeValidation, "declared amount does not match booking total")
	ErrSlotTaken               = newError(CodeConflict, "slot already booked")
	ErrTransactionClosed       = newError(CodeConflict, "transaction already closed")
	ErrInvalidTransition       = newError(CodeConflict, "booking status does not permit this transition")
	ErrServiceNotOffered       = newError(CodeValidation, "requested service is not offered by this venue")
	ErrVenueNotFound           = newError(CodeNotFound, "venue not found")
	ErrBookingNotFound         = newError(CodeNotFound, "booking not found")
	ErrTransactionNotFound     = newError(CodeNotFound, "transaction not found")
	ErrVerificationUnavailable = newError(CodeUnavailable, "payment gateway unreachable, retry later")
	ErrInvariantViolation      = newError(CodeInternal, "internal state violation")
)

// CodeOf extracts the taxonomy code from an error chain; unknown errors are
// treated as invariant violations.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
