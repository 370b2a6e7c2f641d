package handlers

import (
	"net/http"

	"venuebook/middleware"
	"venuebook/models"
	"venuebook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes payment initiation and verification.
type PaymentHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

func NewPaymentHandler(svc booking.BookingService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: logger}
}

// InitiatePayment opens a transaction for a booking owned by the caller and
// returns the external reference the client takes to the gateway.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var input models.InitiatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid input: " + err.Error()})
		return
	}

	ref, err := h.Svc.InitiatePayment(c.Request.Context(), middleware.PrincipalFrom(c), input)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondCreated(c, "transaction opened", gin.H{"transaction_ref": ref})
}

// VerifyPayment reconciles a transaction after the gateway redirect. Safe to
// call repeatedly; a settled transaction returns its recorded outcome.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var input models.VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid input: " + err.Error()})
		return
	}

	result, err := h.Svc.VerifyPayment(c.Request.Context(), middleware.PrincipalFrom(c), input.TransactionRef)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondOK(c, "verification result", result)
}
