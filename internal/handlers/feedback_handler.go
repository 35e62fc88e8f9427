package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/middleware"
	"github.com/openride/rideshare-backend/internal/models"
)

// FeedbackHandler handles ride feedback endpoints
type FeedbackHandler struct {
	feedbackRepo *database.FeedbackRepository
	bookingRepo  *database.BookingRepository
	rideRepo     *database.RideRepository
	userRepo     *database.UserRepository
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(
	feedbackRepo *database.FeedbackRepository,
	bookingRepo *database.BookingRepository,
	rideRepo *database.RideRepository,
	userRepo *database.UserRepository,
) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackRepo: feedbackRepo,
		bookingRepo:  bookingRepo,
		rideRepo:     rideRepo,
		userRepo:     userRepo,
	}
}

// Create submits feedback on a ride. The caller must hold a confirmed or
// completed booking and may submit at most once per ride.
func (h *FeedbackHandler) Create(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.AddFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.rideRepo.GetByID(req.RideID); err != nil {
		respondDomainError(c, err)
		return
	}

	eligible, err := h.bookingRepo.HasEligibleForFeedback(req.RideID, userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if !eligible {
		respondDomainError(c, models.ErrFeedbackNotEligible)
		return
	}

	feedback := &models.Feedback{
		RideID:   req.RideID,
		UserID:   userCtx.UserID,
		Rating:   req.Rating,
		Comments: req.Comments,
	}
	if err := h.feedbackRepo.Create(feedback); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Feedback submitted", feedback)
}

// ListByRide returns all feedback on a ride
func (h *FeedbackHandler) ListByRide(c *gin.Context) {
	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ride id")
		return
	}

	feedback, err := h.feedbackRepo.ListByRide(rideID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", feedback)
}

// MyFeedback returns everything the caller has written
func (h *FeedbackHandler) MyFeedback(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	feedback, err := h.feedbackRepo.ListByUser(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", feedback)
}

// ReceivedFeedback returns feedback left on the calling driver's rides
func (h *FeedbackHandler) ReceivedFeedback(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	feedback, err := h.feedbackRepo.ListForDriver(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", feedback)
}

// ListByUser returns feedback written by the given user
func (h *FeedbackHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	feedback, err := h.feedbackRepo.ListByUser(userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", feedback)
}

// DriverRating returns a driver's average rating, computed from stored
// feedback at read time
func (h *FeedbackHandler) DriverRating(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid driver id")
		return
	}

	driver, err := h.userRepo.GetByID(driverID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if !driver.Role.CanDrive() {
		respondError(c, http.StatusBadRequest, "User is not a driver")
		return
	}

	avg, count, err := h.feedbackRepo.DriverAverage(driverID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", gin.H{
		"driver_id":      driverID,
		"average_rating": avg,
		"feedback_count": count,
	})
}
