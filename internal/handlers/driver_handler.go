package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/middleware"
	"github.com/openride/rideshare-backend/internal/models"
	"github.com/openride/rideshare-backend/internal/services"
)

// DriverHandler handles driver self-service: document uploads, vehicle
// registration and recurring ride schedules
type DriverHandler struct {
	documentRepo    *database.DriverDocumentRepository
	vehicleRepo     *database.VehicleRepository
	scheduleService *services.ScheduleService
}

// NewDriverHandler creates a new DriverHandler
func NewDriverHandler(
	documentRepo *database.DriverDocumentRepository,
	vehicleRepo *database.VehicleRepository,
	scheduleService *services.ScheduleService,
) *DriverHandler {
	return &DriverHandler{
		documentRepo:    documentRepo,
		vehicleRepo:     vehicleRepo,
		scheduleService: scheduleService,
	}
}

// UploadDocument records a verification document for the driver
func (h *DriverHandler) UploadDocument(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc := &models.DriverDocument{
		DriverID:     userCtx.UserID,
		DocumentType: req.DocumentType,
		FileURL:      req.FileURL,
	}
	if err := h.documentRepo.Create(doc); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Document uploaded for review", doc)
}

// MyDocuments lists the driver's documents with their verification status
func (h *DriverHandler) MyDocuments(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	docs, err := h.documentRepo.ListByDriver(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", docs)
}

// RegisterVehicle adds a vehicle pending admin verification
func (h *DriverHandler) RegisterVehicle(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	vehicle := &models.Vehicle{
		DriverID:    userCtx.UserID,
		Make:        req.Make,
		Model:       req.Model,
		PlateNumber: req.PlateNumber,
		Seats:       req.Seats,
	}
	if err := h.vehicleRepo.Create(vehicle); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Vehicle registered for review", vehicle)
}

// MyVehicles lists the driver's vehicles
func (h *DriverHandler) MyVehicles(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicles, err := h.vehicleRepo.ListByDriver(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", vehicles)
}

// CreateSchedule registers a recurring ride schedule
func (h *DriverHandler) CreateSchedule(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateRideScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	schedule, err := h.scheduleService.Create(userCtx.UserID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Schedule created", schedule)
}

// MySchedules lists the driver's recurring schedules
func (h *DriverHandler) MySchedules(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	schedules, err := h.scheduleService.ListByDriver(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", schedules)
}

// SetScheduleActive toggles one of the driver's schedules
func (h *DriverHandler) SetScheduleActive(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid schedule id")
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "active is required")
		return
	}

	if err := h.scheduleService.SetActive(scheduleID, userCtx.UserID, *req.Active); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Schedule updated", nil)
}
