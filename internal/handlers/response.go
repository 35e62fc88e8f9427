package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openride/rideshare-backend/internal/models"
)

// respondSuccess writes the standard success envelope
func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError writes the standard failure envelope
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondDomainError maps domain sentinel errors onto HTTP statuses; anything
// unrecognised is a 500 with a generic message.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrNotOwner):
		respondError(c, http.StatusForbidden, "You do not have access to this resource")
	case errors.Is(err, models.ErrSeatsUnavailable):
		respondError(c, http.StatusBadRequest, "Not enough seats available")
	case errors.Is(err, models.ErrSeatReduction):
		respondError(c, http.StatusBadRequest, "Total seats cannot be reduced below booked seats")
	case errors.Is(err, models.ErrInvalidTransition):
		respondError(c, http.StatusBadRequest, "Invalid status transition")
	case errors.Is(err, models.ErrRideNotEditable):
		respondError(c, http.StatusBadRequest, "Ride is not open for this operation")
	case errors.Is(err, models.ErrDuplicateFeedback):
		respondError(c, http.StatusBadRequest, "Feedback already submitted for this ride")
	case errors.Is(err, models.ErrFeedbackNotEligible):
		respondError(c, http.StatusForbidden, "Only passengers with a confirmed booking can leave feedback")
	case errors.Is(err, models.ErrInsufficientBalance):
		respondError(c, http.StatusBadRequest, "Insufficient wallet balance")
	case errors.Is(err, models.ErrPaymentCompleted):
		respondError(c, http.StatusBadRequest, "Booking already has a completed payment")
	case errors.Is(err, models.ErrDocumentsUnverified):
		respondError(c, http.StatusForbidden, "Driver documents must be verified before offering rides")
	case errors.Is(err, models.ErrDuplicateEmail):
		respondError(c, http.StatusBadRequest, "Email is already registered")
	case errors.Is(err, models.ErrBookingNotPending):
		respondError(c, http.StatusBadRequest, "Booking is not pending")
	case errors.Is(err, models.ErrBookingFinal):
		respondError(c, http.StatusBadRequest, "Booking is already in a final state")
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
