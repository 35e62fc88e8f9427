package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openride/rideshare-backend/internal/middleware"
	"github.com/openride/rideshare-backend/internal/services"
)

// NotificationHandler handles the per-user notification inbox
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns a page of the caller's inbox
func (h *NotificationHandler) List(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	unreadOnly := c.Query("unreadOnly") == "true"

	notifications, err := h.notificationService.List(userCtx.UserID, page, limit, unreadOnly)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", notifications)
}

// UnreadCount returns the caller's unread notification count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := h.notificationService.UnreadCount(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", gin.H{"unread": count})
}

// MarkRead flags one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid notification id")
		return
	}

	if err := h.notificationService.MarkRead(notificationID, userCtx.UserID); err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllRead flags the whole inbox as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	updated, err := h.notificationService.MarkAllRead(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": updated})
}

// AckSafety marks the notification read and acknowledges the caller's
// pending night-ride safety check
func (h *NotificationHandler) AckSafety(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid notification id")
		return
	}

	message, err := h.notificationService.AcknowledgeSafe(notificationID, userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, message, nil)
}
