package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// NotificationRepository handles database operations for the notifications
// table
type NotificationRepository struct {
	db DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification. A nil userID broadcasts to all users.
func (r *NotificationRepository) Create(notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, read)
		VALUES ($1, $2, $3, FALSE)
		RETURNING read, created_at
	`

	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query, notification.ID, notification.UserID, notification.Message,
	).Scan(&notification.Read, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// List returns a page of the user's inbox, newest first. Broadcast rows
// (NULL user_id) are included. If the notifications table has not been
// provisioned yet the inbox degrades to an empty page instead of erroring.
func (r *NotificationRepository) List(userID uuid.UUID, page, limit int, unreadOnly bool) (*models.NotificationPage, error) {
	filter := `(user_id = $1 OR user_id IS NULL)`
	if unreadOnly {
		filter += ` AND read = FALSE`
	}

	var total int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE `+filter, userID,
	).Scan(&total)
	if err != nil {
		if IsUndefinedTable(err) {
			return emptyPage(page, limit), nil
		}
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	offset := (page - 1) * limit
	rows, err := r.db.Query(`
		SELECT id, user_id, message, read, created_at
		FROM notifications
		WHERE `+filter+`
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		if IsUndefinedTable(err) {
			return emptyPage(page, limit), nil
		}
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.NotificationPage{
		Notifications: notifications,
		Page:          page,
		Limit:         limit,
		Total:         total,
		HasMore:       offset+len(notifications) < total,
	}, nil
}

// MarkRead flags one of the user's notifications as read
func (r *NotificationRepository) MarkRead(notificationID, userID uuid.UUID) error {
	result, err := r.db.Exec(`
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)
	`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// MarkAllRead flags every unread notification in the user's inbox as read
// and returns how many were updated
func (r *NotificationRepository) MarkAllRead(userID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(`
		UPDATE notifications SET read = TRUE
		WHERE (user_id = $1 OR user_id IS NULL) AND read = FALSE
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return result.RowsAffected()
}

// UnreadCount returns the number of unread notifications in the user's inbox
func (r *NotificationRepository) UnreadCount(userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM notifications
		WHERE (user_id = $1 OR user_id IS NULL) AND read = FALSE
	`, userID).Scan(&count)
	if err != nil {
		if IsUndefinedTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func emptyPage(page, limit int) *models.NotificationPage {
	return &models.NotificationPage{
		Notifications: []models.Notification{},
		Page:          page,
		Limit:         limit,
		Total:         0,
		HasMore:       false,
	}
}
