package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new pending booking. Seats are not deducted until the
// booking is confirmed.
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, ride_id, passenger_id, seats_booked, amount, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING status, created_at, updated_at
	`

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.RideID, booking.PassengerID,
		booking.SeatsBooked, booking.Amount,
	).Scan(&booking.Status, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT id, ride_id, passenger_id, seats_booked, amount, status,
		       created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	booking := &models.Booking{}
	err := r.db.QueryRow(query, bookingID).Scan(
		&booking.ID, &booking.RideID, &booking.PassengerID,
		&booking.SeatsBooked, &booking.Amount, &booking.Status,
		&booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	return booking, nil
}

// ListByPassenger returns all bookings made by a passenger
func (r *BookingRepository) ListByPassenger(passengerID uuid.UUID) ([]models.Booking, error) {
	query := `
		SELECT id, ride_id, passenger_id, seats_booked, amount, status,
		       created_at, updated_at
		FROM bookings
		WHERE passenger_id = $1
		ORDER BY created_at DESC
	`

	return r.list(query, passengerID)
}

// ListByRide returns all bookings on a ride
func (r *BookingRepository) ListByRide(rideID uuid.UUID) ([]models.Booking, error) {
	query := `
		SELECT id, ride_id, passenger_id, seats_booked, amount, status,
		       created_at, updated_at
		FROM bookings
		WHERE ride_id = $1
		ORDER BY created_at
	`

	return r.list(query, rideID)
}

// ListConfirmedByRide returns the confirmed bookings on a ride, used when the
// ride completes to fan out night-ride safety checks.
func (r *BookingRepository) ListConfirmedByRide(rideID uuid.UUID) ([]models.Booking, error) {
	query := `
		SELECT id, ride_id, passenger_id, seats_booked, amount, status,
		       created_at, updated_at
		FROM bookings
		WHERE ride_id = $1 AND status = 'confirmed'
		ORDER BY created_at
	`

	return r.list(query, rideID)
}

// Confirm moves a pending booking to confirmed and deducts its seats with a
// single conditional decrement, so two concurrent confirmations can never
// oversell the ride.
func (r *BookingRepository) Confirm(bookingID uuid.UUID, rideID uuid.UUID, seats int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE rides
		SET available_seats = available_seats - $2, updated_at = NOW()
		WHERE id = $1 AND available_seats >= $2
	`, rideID, seats)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrSeatsUnavailable
	}

	result, err = tx.Exec(`
		UPDATE bookings SET status = 'confirmed', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, bookingID)
	if err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrBookingNotPending
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CancelByPassenger cancels a passenger's own booking. The status predicate
// inside the seat-restore UPDATE guarantees seats are handed back exactly
// once even if the cancellation is retried. A completed wallet payment is
// refunded inside the same transaction.
func (r *BookingRepository) CancelByPassenger(bookingID uuid.UUID) (refunded bool, err error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	booking := struct {
		RideID      uuid.UUID
		PassengerID uuid.UUID
		Seats       int
		Amount      float64
		Status      models.BookingStatus
	}{}
	err = tx.QueryRowx(`
		SELECT ride_id, passenger_id, seats_booked, amount, status
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`, bookingID).Scan(&booking.RideID, &booking.PassengerID, &booking.Seats, &booking.Amount, &booking.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, models.ErrNotFound
		}
		return false, fmt.Errorf("failed to load booking: %w", err)
	}

	if booking.Status.IsTerminal() {
		return false, models.ErrBookingFinal
	}
	if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusConfirmed {
		return false, models.ErrInvalidTransition
	}
	heldSeat := booking.Status.HoldsSeat()

	_, err = tx.Exec(`
		UPDATE bookings SET status = 'canceled_by_passenger', updated_at = NOW()
		WHERE id = $1
	`, bookingID)
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if heldSeat {
		_, err = tx.Exec(`
			UPDATE rides SET available_seats = available_seats + $2, updated_at = NOW()
			WHERE id = $1
		`, booking.RideID, booking.Seats)
		if err != nil {
			return false, fmt.Errorf("failed to restore seats: %w", err)
		}
	}

	var walletPaid bool
	err = tx.QueryRowx(`
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE booking_id = $1 AND method = 'wallet' AND status = 'completed'
		)
	`, bookingID).Scan(&walletPaid)
	if err != nil {
		return false, fmt.Errorf("failed to check payment: %w", err)
	}

	if walletPaid {
		_, err = tx.Exec(`
			INSERT INTO wallets (id, user_id, balance)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id)
			DO UPDATE SET balance = wallets.balance + $3, updated_at = NOW()
		`, uuid.New(), booking.PassengerID, booking.Amount)
		if err != nil {
			return false, fmt.Errorf("failed to refund wallet: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO wallet_transactions (id, user_id, amount, type, description)
			VALUES ($1, $2, $3, 'refund', $4)
		`, uuid.New(), booking.PassengerID, booking.Amount,
			fmt.Sprintf("Refund for cancelled booking %s", bookingID))
		if err != nil {
			return false, fmt.Errorf("failed to record refund: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return walletPaid, nil
}

// UpdateStatus applies a driver-side in-trip transition. The predicate keeps
// the transition legal: in_progress only from confirmed, completed only from
// in_progress.
func (r *BookingRepository) UpdateStatus(bookingID uuid.UUID, status models.BookingStatus) error {
	var from models.BookingStatus
	switch status {
	case models.BookingStatusInProgress:
		from = models.BookingStatusConfirmed
	case models.BookingStatusCompleted:
		from = models.BookingStatusInProgress
	default:
		return models.ErrInvalidTransition
	}

	result, err := r.db.Exec(`
		UPDATE bookings SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`, bookingID, status, from)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrInvalidTransition
	}

	return nil
}

// HasEligibleForFeedback reports whether the user has a confirmed or
// completed booking on the ride.
func (r *BookingRepository) HasEligibleForFeedback(rideID, userID uuid.UUID) (bool, error) {
	var eligible bool
	err := r.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE ride_id = $1 AND passenger_id = $2
			  AND status IN ('confirmed', 'completed')
		)
	`, rideID, userID).Scan(&eligible)
	if err != nil {
		return false, fmt.Errorf("failed to check feedback eligibility: %w", err)
	}
	return eligible, nil
}

func (r *BookingRepository) list(query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID, &booking.RideID, &booking.PassengerID,
			&booking.SeatsBooked, &booking.Amount, &booking.Status,
			&booking.CreatedAt, &booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
