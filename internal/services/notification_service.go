package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/models"
	"github.com/openride/rideshare-backend/pkg/dispatch"
)

// NotificationService writes in-app notifications and, when a publisher is
// configured, mirrors them onto the message broker. The broker is best
// effort: a publish failure never fails the caller.
type NotificationService struct {
	notificationRepo *database.NotificationRepository
	safetyRepo       *database.SafetyCheckRepository
	publisher        dispatch.Publisher
	logger           *logrus.Logger
}

// NewNotificationService creates a new NotificationService. publisher may be
// nil when no broker is configured.
func NewNotificationService(
	notificationRepo *database.NotificationRepository,
	safetyRepo *database.SafetyCheckRepository,
	publisher dispatch.Publisher,
	logger *logrus.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		safetyRepo:       safetyRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

// Notify stores a notification for one user and mirrors it to the broker
func (s *NotificationService) Notify(userID uuid.UUID, message string) error {
	notification := &models.Notification{UserID: &userID, Message: message}
	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	s.publish("notification.user", notification)
	return nil
}

// Broadcast stores a notification visible to every user's inbox
func (s *NotificationService) Broadcast(message string) error {
	notification := &models.Notification{Message: message}
	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	s.publish("notification.broadcast", notification)
	return nil
}

// List returns a page of the user's inbox
func (s *NotificationService) List(userID uuid.UUID, page, limit int, unreadOnly bool) (*models.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = models.NotificationDefaultPageSize
	}
	if limit > models.NotificationMaxPageSize {
		limit = models.NotificationMaxPageSize
	}
	return s.notificationRepo.List(userID, page, limit, unreadOnly)
}

// MarkRead flags one notification as read
func (s *NotificationService) MarkRead(notificationID, userID uuid.UUID) error {
	return s.notificationRepo.MarkRead(notificationID, userID)
}

// MarkAllRead flags the whole inbox as read
func (s *NotificationService) MarkAllRead(userID uuid.UUID) (int64, error) {
	return s.notificationRepo.MarkAllRead(userID)
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount(userID uuid.UUID) (int, error) {
	return s.notificationRepo.UnreadCount(userID)
}

// AcknowledgeSafe marks the notification read and acknowledges the user's
// latest pending night-ride safety check, then returns a fixed confirmation
// message.
func (s *NotificationService) AcknowledgeSafe(notificationID, userID uuid.UUID) (string, error) {
	if err := s.notificationRepo.MarkRead(notificationID, userID); err != nil {
		return "", err
	}

	acked, err := s.safetyRepo.AcknowledgeLatest(userID)
	if err != nil {
		return "", err
	}
	if !acked {
		s.logger.WithField("user_id", userID).Debug("No pending safety check to acknowledge")
	}

	return models.SafetyAckMessage, nil
}

func (s *NotificationService) publish(routingKey string, notification *models.Notification) {
	if s.publisher == nil {
		return
	}

	event := dispatch.Event{
		Message:   notification.Message,
		CreatedAt: notification.CreatedAt,
	}
	if notification.UserID != nil {
		event.UserID = notification.UserID.String()
	}

	if err := s.publisher.Publish(routingKey, event); err != nil {
		s.logger.WithError(err).WithField("routing_key", routingKey).
			Warn("Failed to publish notification event")
	}
}
