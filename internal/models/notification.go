package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification belongs to a user, or is a broadcast when UserID is nil
type Notification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Message   string     `json:"message" db:"message"`
	Read      bool       `json:"read" db:"read"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Notification pagination bounds
const (
	NotificationDefaultPageSize = 20
	NotificationMaxPageSize     = 50
)

// NotificationPage is a paginated slice of a user's inbox
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	Total         int            `json:"total"`
	HasMore       bool           `json:"hasMore"`
}

// SafetyAckMessage is sent back when a passenger confirms safe arrival.
const SafetyAckMessage = "Thanks for confirming you reached safely. Have a good night!"
