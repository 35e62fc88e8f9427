package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/middleware"
	"github.com/openride/rideshare-backend/internal/models"
	"github.com/openride/rideshare-backend/internal/services"
)

// RideHandler handles ride lifecycle endpoints
type RideHandler struct {
	rideService  *services.RideService
	pricing      *services.PricingService
	scheduleRepo *database.RideScheduleRepository
	logger       *logrus.Logger
}

// NewRideHandler creates a new RideHandler
func NewRideHandler(
	rideService *services.RideService,
	pricing *services.PricingService,
	scheduleRepo *database.RideScheduleRepository,
	logger *logrus.Logger,
) *RideHandler {
	return &RideHandler{
		rideService:  rideService,
		pricing:      pricing,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// Create offers a new ride
func (h *RideHandler) Create(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ride, err := h.rideService.Create(userCtx.UserID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Ride created", ride)
}

// Search lists scheduled rides matching source/destination/date filters
func (h *RideHandler) Search(c *gin.Context) {
	params := models.SearchRidesParams{
		Source:      c.Query("source"),
		Destination: c.Query("destination"),
	}

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
			return
		}
		params.Date = &date
	}

	rides, err := h.rideService.Search(params)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", rides)
}

// Get returns one ride with its waypoints
func (h *RideHandler) Get(c *gin.Context) {
	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ride id")
		return
	}

	ride, err := h.rideService.Get(rideID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	waypoints, err := h.scheduleRepo.ListWaypoints(rideID)
	if err != nil {
		h.logger.WithError(err).WithField("ride_id", rideID).Warn("Failed to list waypoints")
		waypoints = []models.RideWaypoint{}
	}

	respondSuccess(c, http.StatusOK, "", gin.H{
		"ride":           ride,
		"estimated_fare": ride.EstimatedFare(),
		"waypoints":      waypoints,
	})
}

// MyRides lists the authenticated driver's rides
func (h *RideHandler) MyRides(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rides, err := h.rideService.ListByDriver(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", rides)
}

// Update edits a scheduled ride
func (h *RideHandler) Update(c *gin.Context) {
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

	var req models.UpdateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ride, err := h.rideService.Update(rideID, userCtx.UserID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Ride updated", ride)
}

// UpdateStatus applies a lifecycle transition
func (h *RideHandler) UpdateStatus(c *gin.Context) {
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

	var req models.UpdateRideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ride, err := h.rideService.UpdateStatus(rideID, userCtx.UserID, req.Status)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Ride status updated", ride)
}

// Estimate returns distance, fare and ETA for a coordinate pair without
// touching the database
func (h *RideHandler) Estimate(c *gin.Context) {
	fromLat, err1 := strconv.ParseFloat(c.Query("from_lat"), 64)
	fromLng, err2 := strconv.ParseFloat(c.Query("from_lng"), 64)
	toLat, err3 := strconv.ParseFloat(c.Query("to_lat"), 64)
	toLng, err4 := strconv.ParseFloat(c.Query("to_lng"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		respondError(c, http.StatusBadRequest, "from_lat, from_lng, to_lat and to_lng are required")
		return
	}

	seats := 1
	if seatsStr := c.Query("seats"); seatsStr != "" {
		seats, err1 = strconv.Atoi(seatsStr)
		if err1 != nil || seats < 1 {
			respondError(c, http.StatusBadRequest, "seats must be a positive integer")
			return
		}
	}

	speed := 0.0
	if speedStr := c.Query("speed_kmh"); speedStr != "" {
		speed, err1 = strconv.ParseFloat(speedStr, 64)
		if err1 != nil {
			respondError(c, http.StatusBadRequest, "speed_kmh must be a number")
			return
		}
	}

	distance := services.Haversine(fromLat, fromLng, toLat, toLng)
	respondSuccess(c, http.StatusOK, "", gin.H{
		"distance_km":    distance,
		"estimated_fare": h.pricing.EstimateFare(distance, seats),
		"eta_minutes":    h.pricing.EstimateETA(distance, speed),
	})
}

// ETA returns the travel time estimate between two coordinates
func (h *RideHandler) ETA(c *gin.Context) {
	fromLat, err1 := strconv.ParseFloat(c.Query("from_lat"), 64)
	fromLng, err2 := strconv.ParseFloat(c.Query("from_lng"), 64)
	toLat, err3 := strconv.ParseFloat(c.Query("to_lat"), 64)
	toLng, err4 := strconv.ParseFloat(c.Query("to_lng"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		respondError(c, http.StatusBadRequest, "from_lat, from_lng, to_lat and to_lng are required")
		return
	}

	speed := 0.0
	if speedStr := c.Query("speed_kmh"); speedStr != "" {
		var err error
		speed, err = strconv.ParseFloat(speedStr, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "speed_kmh must be a number")
			return
		}
	}

	distance := services.Haversine(fromLat, fromLng, toLat, toLng)
	respondSuccess(c, http.StatusOK, "", gin.H{
		"distance_km": distance,
		"eta_minutes": h.pricing.EstimateETA(distance, speed),
	})
}

// ListWaypoints returns a ride's waypoints in position order
func (h *RideHandler) ListWaypoints(c *gin.Context) {
	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ride id")
		return
	}

	waypoints, err := h.scheduleRepo.ListWaypoints(rideID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", waypoints)
}

// AddWaypoint appends a waypoint to the driver's own ride
func (h *RideHandler) AddWaypoint(c *gin.Context) {
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

	ride, err := h.rideService.Get(rideID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if ride.DriverID != userCtx.UserID {
		respondDomainError(c, models.ErrNotOwner)
		return
	}

	var req models.AddWaypointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	waypoint := &models.RideWaypoint{
		RideID:   rideID,
		Name:     req.Name,
		Lat:      req.Lat,
		Lng:      req.Lng,
		Position: req.Position,
	}
	if err := h.scheduleRepo.AddWaypoint(waypoint); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Waypoint added", waypoint)
}
