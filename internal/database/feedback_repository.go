package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// FeedbackRepository handles database operations for the feedback table
type FeedbackRepository struct {
	db DB
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts feedback for a ride. The unique index on (ride_id, user_id)
// rejects a second submission from the same user.
func (r *FeedbackRepository) Create(feedback *models.Feedback) error {
	query := `
		INSERT INTO feedback (id, ride_id, user_id, rating, comments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if feedback.ID == uuid.Nil {
		feedback.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		feedback.ID, feedback.RideID, feedback.UserID,
		feedback.Rating, feedback.Comments,
	).Scan(&feedback.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return models.ErrDuplicateFeedback
		}
		if IsForeignKeyViolation(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// ListByRide returns all feedback left on a ride, newest first
func (r *FeedbackRepository) ListByRide(rideID uuid.UUID) ([]models.Feedback, error) {
	query := `
		SELECT f.id, f.ride_id, f.user_id, f.rating, f.comments, f.created_at,
		       u.name AS user_name
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		WHERE f.ride_id = $1
		ORDER BY f.created_at DESC
	`

	return r.list(query, rideID)
}

// ListByUser returns all feedback a user has written
func (r *FeedbackRepository) ListByUser(userID uuid.UUID) ([]models.Feedback, error) {
	query := `
		SELECT f.id, f.ride_id, f.user_id, f.rating, f.comments, f.created_at,
		       u.name AS user_name
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`

	return r.list(query, userID)
}

// ListForDriver returns feedback left on any of the driver's rides
func (r *FeedbackRepository) ListForDriver(driverID uuid.UUID) ([]models.Feedback, error) {
	query := `
		SELECT f.id, f.ride_id, f.user_id, f.rating, f.comments, f.created_at,
		       u.name AS user_name
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		JOIN rides rd ON rd.id = f.ride_id
		WHERE rd.driver_id = $1
		ORDER BY f.created_at DESC
	`

	return r.list(query, driverID)
}

// DriverAverage computes a driver's average rating from feedback on their
// rides. Ratings are never cached on the user row, so the value is always
// current.
func (r *FeedbackRepository) DriverAverage(driverID uuid.UUID) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(f.rating), 0), COUNT(f.id)
		FROM feedback f
		JOIN rides r ON r.id = f.ride_id
		WHERE r.driver_id = $1
	`

	var avg float64
	var count int
	err := r.db.QueryRow(query, driverID).Scan(&avg, &count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to compute driver rating: %w", err)
	}

	return avg, count, nil
}

func (r *FeedbackRepository) list(query string, args ...interface{}) ([]models.Feedback, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	items := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		err := rows.Scan(
			&f.ID, &f.RideID, &f.UserID, &f.Rating, &f.Comments,
			&f.CreatedAt, &f.UserName,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}

	return items, rows.Err()
}
