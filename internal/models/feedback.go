package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Feedback belongs to a (ride, user) pair, unique per pair
type Feedback struct {
	ID        uuid.UUID `json:"id" db:"id"`
	RideID    uuid.UUID `json:"ride_id" db:"ride_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comments  *string   `json:"comments,omitempty" db:"comments"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Populated on listing joins, never stored
	UserName string `json:"user_name,omitempty" db:"user_name"`
}

// AddFeedbackRequest represents the feedback payload
type AddFeedbackRequest struct {
	RideID   uuid.UUID `json:"ride_id" binding:"required"`
	Rating   int       `json:"rating" binding:"required"`
	Comments *string   `json:"comments,omitempty"`
}

// Validate checks the rating range
func (r *AddFeedbackRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}
