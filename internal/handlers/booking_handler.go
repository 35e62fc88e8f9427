package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openride/rideshare-backend/internal/middleware"
	"github.com/openride/rideshare-backend/internal/models"
	"github.com/openride/rideshare-backend/internal/services"
)

// BookingHandler handles booking lifecycle endpoints
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create places a pending booking
func (h *BookingHandler) Create(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := h.bookingService.Create(userCtx.UserID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Booking created", booking)
}

// Get returns one booking
func (h *BookingHandler) Get(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := h.bookingService.Get(bookingID, userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", booking)
}

// MyBookings lists the passenger's bookings
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.ListByPassenger(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", bookings)
}

// ListByRide lists a ride's bookings to its driver
func (h *BookingHandler) ListByRide(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ride id")
		return
	}

	bookings, err := h.bookingService.ListByRide(rideID, userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", bookings)
}

// Confirm accepts a pending booking (driver only)
func (h *BookingHandler) Confirm(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := h.bookingService.Confirm(bookingID, userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Booking confirmed", booking)
}

// Cancel cancels the passenger's own booking
func (h *BookingHandler) Cancel(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := h.bookingService.Cancel(bookingID, userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Booking cancelled", booking)
}

// UpdateStatus marks a booking in_progress or completed (driver only)
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookingService.UpdateStatus(bookingID, userCtx.UserID, req.Status)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Booking status updated", booking)
}
