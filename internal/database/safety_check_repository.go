package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// SafetyCheckRepository handles database operations for night-ride safety
// checks
type SafetyCheckRepository struct {
	db DB
}

// NewSafetyCheckRepository creates a new SafetyCheckRepository
func NewSafetyCheckRepository(db DB) *SafetyCheckRepository {
	return &SafetyCheckRepository{db: db}
}

// Create records a safety check for a passenger on a completed night ride
func (r *SafetyCheckRepository) Create(check *models.NightRideSafetyCheck) error {
	query := `
		INSERT INTO night_ride_safety_checks (id, booking_id, ride_id, passenger_id, completed_at, acknowledged)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING acknowledged
	`

	if check.ID == uuid.Nil {
		check.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		check.ID, check.BookingID, check.RideID, check.PassengerID, check.CompletedAt,
	).Scan(&check.Acknowledged)
	if err != nil {
		return fmt.Errorf("failed to create safety check: %w", err)
	}

	return nil
}

// AcknowledgeLatest marks the passenger's most recent unacknowledged safety
// check as acknowledged. Acknowledging when none is pending is a no-op.
func (r *SafetyCheckRepository) AcknowledgeLatest(passengerID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE night_ride_safety_checks
		SET acknowledged = TRUE, acknowledged_at = NOW()
		WHERE id = (
			SELECT id FROM night_ride_safety_checks
			WHERE passenger_id = $1 AND acknowledged = FALSE
			ORDER BY completed_at DESC
			LIMIT 1
		)
	`, passengerID)
	if err != nil {
		return false, fmt.Errorf("failed to acknowledge safety check: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ListPending returns a passenger's unacknowledged safety checks, newest
// first
func (r *SafetyCheckRepository) ListPending(passengerID uuid.UUID) ([]models.NightRideSafetyCheck, error) {
	rows, err := r.db.Query(`
		SELECT id, booking_id, ride_id, passenger_id, completed_at, acknowledged, acknowledged_at
		FROM night_ride_safety_checks
		WHERE passenger_id = $1 AND acknowledged = FALSE
		ORDER BY completed_at DESC
	`, passengerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list safety checks: %w", err)
	}
	defer rows.Close()

	checks := []models.NightRideSafetyCheck{}
	for rows.Next() {
		var check models.NightRideSafetyCheck
		err := rows.Scan(
			&check.ID, &check.BookingID, &check.RideID, &check.PassengerID,
			&check.CompletedAt, &check.Acknowledged, &check.AcknowledgedAt,
		)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}

	return checks, rows.Err()
}
