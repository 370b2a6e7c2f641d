package routes

import (
	"net/http"
	"time"

	userRepo "venuebook/database/repository/user"
	"venuebook/handlers"
	"venuebook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups everything route registration needs.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository
	Booking  *handlers.BookingHandler
	Payment  *handlers.PaymentHandler
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "venuebook up"})
	})
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))

		api.POST("/bookings", hb.Booking.CreateBooking)
		api.GET("/bookings", hb.Booking.ListUserBookings)
		api.GET("/bookings/:id", hb.Booking.GetBooking)
		api.PATCH("/bookings/:id/status", hb.Booking.UpdateBookingStatus)

		api.GET("/venues/:id/bookings", hb.Booking.ListVenueBookings)
		api.GET("/venues/:id/availability", hb.Booking.VenueAvailability)

		api.POST("/payments/initiate", hb.Payment.InitiatePayment)
		api.POST("/payments/verify", hb.Payment.VerifyPayment)
	}
}

// RegisterRoutes wires CORS and every route group.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
}
