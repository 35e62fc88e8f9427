package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/models"
	"github.com/openride/rideshare-backend/internal/services"
)

// AdminHandler handles verification review and broadcast endpoints
type AdminHandler struct {
	documentRepo        *database.DriverDocumentRepository
	vehicleRepo         *database.VehicleRepository
	userRepo            *database.UserRepository
	notificationService *services.NotificationService
	logger              *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	documentRepo *database.DriverDocumentRepository,
	vehicleRepo *database.VehicleRepository,
	userRepo *database.UserRepository,
	notificationService *services.NotificationService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		documentRepo:        documentRepo,
		vehicleRepo:         vehicleRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		logger:              logger,
	}
}

// PendingDocuments lists documents awaiting review
func (h *AdminHandler) PendingDocuments(c *gin.Context) {
	docs, err := h.documentRepo.ListPending()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", docs)
}

// ReviewDocument approves or rejects a driver document and notifies the
// driver
func (h *AdminHandler) ReviewDocument(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid document id")
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.documentRepo.GetByID(documentID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.documentRepo.Review(documentID, req.Status, req.Reason); err != nil {
		respondDomainError(c, err)
		return
	}

	message := "Your " + doc.DocumentType + " document was approved."
	if req.Status == models.VerificationRejected {
		message = "Your " + doc.DocumentType + " document was rejected: " + *req.Reason
	}
	if err := h.notificationService.Notify(doc.DriverID, message); err != nil {
		h.logger.WithError(err).WithField("document_id", documentID).
			Warn("Failed to notify driver of document review")
	}

	respondSuccess(c, http.StatusOK, "Document reviewed", nil)
}

// DriverDocuments lists every document a driver has submitted
func (h *AdminHandler) DriverDocuments(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid driver id")
		return
	}

	docs, err := h.documentRepo.ListByDriver(driverID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", docs)
}

// PendingVehicles lists vehicles awaiting review
func (h *AdminHandler) PendingVehicles(c *gin.Context) {
	vehicles, err := h.vehicleRepo.ListPending()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", vehicles)
}

// ReviewVehicle approves or rejects a vehicle and notifies the driver
func (h *AdminHandler) ReviewVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid vehicle id")
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	vehicle, err := h.vehicleRepo.GetByID(vehicleID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.vehicleRepo.Review(vehicleID, req.Status, req.Reason); err != nil {
		respondDomainError(c, err)
		return
	}

	message := "Your vehicle " + vehicle.PlateNumber + " was approved."
	if req.Status == models.VerificationRejected {
		message = "Your vehicle " + vehicle.PlateNumber + " was rejected: " + *req.Reason
	}
	if err := h.notificationService.Notify(vehicle.DriverID, message); err != nil {
		h.logger.WithError(err).WithField("vehicle_id", vehicleID).
			Warn("Failed to notify driver of vehicle review")
	}

	respondSuccess(c, http.StatusOK, "Vehicle reviewed", nil)
}

// ListDrivers returns every driver account
func (h *AdminHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.userRepo.ListDrivers()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", drivers)
}

// Broadcast sends a notification visible to every user
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "message is required")
		return
	}

	if err := h.notificationService.Broadcast(req.Message); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Broadcast sent", nil)
}
