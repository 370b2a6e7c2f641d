package handlers

import (
	"net/http"

	"venuebook/middleware"
	"venuebook/models"
	"venuebook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking engine over HTTP.
type BookingHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// CreateBooking opens a PENDING booking for the authenticated user.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input models.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid input: " + err.Error()})
		return
	}

	bk, err := h.Svc.CreateBooking(c.Request.Context(), middleware.PrincipalFrom(c), input)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondCreated(c, "booking created", bk)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	bk, err := h.Svc.GetBooking(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondOK(c, "booking", bk)
}

func (h *BookingHandler) ListUserBookings(c *gin.Context) {
	bookings, err := h.Svc.ListUserBookings(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondOK(c, "bookings", bookings)
}

// ListVenueBookings lets a venue owner see their schedule for a date.
func (h *BookingHandler) ListVenueBookings(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "query parameter 'date' is required"})
		return
	}
	bookings, err := h.Svc.ListVenueBookings(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), date)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondOK(c, "venue bookings", bookings)
}

// VenueAvailability returns the occupied (paid) slots for a venue/date.
func (h *BookingHandler) VenueAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "query parameter 'date' is required"})
		return
	}
	occupied, err := h.Svc.VenueAvailability(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondOK(c, "occupied slots", occupied)
}

// UpdateBookingStatus is the administrative transition endpoint.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var input models.UpdateBookingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid input: " + err.Error()})
		return
	}

	bk, err := h.Svc.TransitionBooking(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondOK(c, "booking updated", bk)
}
