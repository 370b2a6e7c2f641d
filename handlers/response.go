package handlers

import (
	"errors"
	"net/http"

	"venuebook/models"
	"venuebook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, models.APIResponse{Success: true, Message: message, Data: data})
}

// respondError maps the service error taxonomy onto HTTP statuses. Expected
// business conditions come back as success=false envelopes; invariant
// violations are logged and masked as generic internal errors.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	code := booking.CodeOf(err)

	status := http.StatusInternalServerError
	message := err.Error()
	switch code {
	case booking.CodeValidation:
		status = http.StatusBadRequest
	case booking.CodeConflict:
		status = http.StatusConflict
	case booking.CodeAuthorization:
		// Missing identity is 401; a known caller denied ownership is 403.
		if errors.Is(err, booking.ErrUnauthenticated) {
			status = http.StatusUnauthorized
			message = "authentication required"
			break
		}
		status = http.StatusForbidden
		message = "access denied"
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodeUnavailable:
		status = http.StatusServiceUnavailable
	case booking.CodeInternal:
		logger.Error("internal error", zap.Error(err))
		message = "internal error"
	}

	c.JSON(status, models.APIResponse{Success: false, Message: message})
}
