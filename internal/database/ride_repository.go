package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// RideRepository handles database operations for the rides table, including
// the cascading cancellation transaction.
type RideRepository struct {
	db DB
}

// NewRideRepository creates a new RideRepository
func NewRideRepository(db DB) *RideRepository {
	return &RideRepository{db: db}
}

// Create inserts a new ride with status scheduled and a full seat count
func (r *RideRepository) Create(ride *models.Ride) error {
	query := `
		INSERT INTO rides (
			id, driver_id, vehicle_id, source, destination, ride_date, ride_time,
			total_seats, available_seats, fare_per_km, distance_km, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $8, $9, $10, 'scheduled'
		)
		RETURNING status, created_at, updated_at
	`

	if ride.ID == uuid.Nil {
		ride.ID = uuid.New()
	}
	ride.FarePerKm = models.FarePerKm
	ride.AvailableSeats = ride.TotalSeats

	err := r.db.QueryRow(
		query,
		ride.ID, ride.DriverID, ride.VehicleID, ride.Source, ride.Destination,
		ride.RideDate, ride.RideTime, ride.TotalSeats, ride.FarePerKm, ride.DistanceKm,
	).Scan(&ride.Status, &ride.CreatedAt, &ride.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("referenced vehicle or driver does not exist")
		}
		return fmt.Errorf("failed to create ride: %w", err)
	}

	return nil
}

// GetByID retrieves a ride by ID
func (r *RideRepository) GetByID(rideID uuid.UUID) (*models.Ride, error) {
	query := `
		SELECT id, driver_id, vehicle_id, source, destination, ride_date, ride_time,
		       total_seats, available_seats, fare_per_km, distance_km, status,
		       created_at, updated_at
		FROM rides
		WHERE id = $1
	`

	return r.scanRide(r.db.QueryRow(query, rideID))
}

// Search returns bookable rides matching the filters: case-insensitive
// substring match on source/destination, exact day match on date, status
// scheduled with seats left, ordered by date then time.
func (r *RideRepository) Search(params models.SearchRidesParams) ([]models.RideSearchResult, error) {
	query := `
		SELECT r.id, r.driver_id, r.vehicle_id, r.source, r.destination,
		       r.ride_date, r.ride_time, r.total_seats, r.available_seats,
		       r.fare_per_km, r.distance_km, r.status, r.created_at, r.updated_at,
		       u.name AS driver_name
		FROM rides r
		JOIN users u ON u.id = r.driver_id
		WHERE r.status = 'scheduled'
		  AND r.available_seats > 0
		  AND r.source ILIKE '%' || $1 || '%'
		  AND r.destination ILIKE '%' || $2 || '%'
		  AND ($3::date IS NULL OR r.ride_date >= $3::date AND r.ride_date < $3::date + 1)
		ORDER BY r.ride_date ASC, r.ride_time ASC
	`

	var date interface{}
	if params.Date != nil {
		date = params.Date.Format("2006-01-02")
	}

	rows, err := r.db.Query(query, params.Source, params.Destination, date)
	if err != nil {
		return nil, fmt.Errorf("failed to search rides: %w", err)
	}
	defer rows.Close()

	results := []models.RideSearchResult{}
	for rows.Next() {
		var res models.RideSearchResult
		var vehicleID sql.NullString
		err := rows.Scan(
			&res.ID, &res.DriverID, &vehicleID, &res.Source, &res.Destination,
			&res.RideDate, &res.RideTime, &res.TotalSeats, &res.AvailableSeats,
			&res.FarePerKm, &res.DistanceKm, &res.Status, &res.CreatedAt,
			&res.UpdatedAt, &res.DriverName,
		)
		if err != nil {
			return nil, err
		}
		if vehicleID.Valid {
			id, err := uuid.Parse(vehicleID.String)
			if err == nil {
				res.VehicleID = &id
			}
		}
		res.EstimatedFare = res.Ride.EstimatedFare()
		results = append(results, res)
	}

	return results, rows.Err()
}

// ListByDriver returns all rides offered by a driver
func (r *RideRepository) ListByDriver(driverID uuid.UUID) ([]models.Ride, error) {
	query := `
		SELECT id, driver_id, vehicle_id, source, destination, ride_date, ride_time,
		       total_seats, available_seats, fare_per_km, distance_km, status,
		       created_at, updated_at
		FROM rides
		WHERE driver_id = $1
		ORDER BY ride_date DESC, ride_time DESC
	`

	rows, err := r.db.Query(query, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	defer rows.Close()

	rides := []models.Ride{}
	for rows.Next() {
		ride, err := r.scanRideRow(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, *ride)
	}

	return rides, rows.Err()
}

// UpdateStatus performs a plain status update with no cascading effects.
// Cancellation and completion go through CancelWithRefunds and the ride
// service respectively.
func (r *RideRepository) UpdateStatus(rideID uuid.UUID, status models.RideStatus) error {
	query := `UPDATE rides SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(query, rideID, status)
	if err != nil {
		return fmt.Errorf("failed to update ride status: %w", err)
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

// Update edits a scheduled ride. Booked seats are recomputed from bookings
// outside the two cancellation statuses; a total below that sum is rejected
// and available_seats is recomputed as total minus booked.
func (r *RideRepository) Update(ride *models.Ride, req *models.UpdateRideRequest) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var booked int
	err = tx.QueryRowx(`
		SELECT COALESCE(SUM(seats_booked), 0)
		FROM bookings
		WHERE ride_id = $1
		  AND status NOT IN ('canceled_by_driver', 'canceled_by_passenger')
	`, ride.ID).Scan(&booked)
	if err != nil {
		return fmt.Errorf("failed to compute booked seats: %w", err)
	}

	if req.Source != nil {
		ride.Source = *req.Source
	}
	if req.Destination != nil {
		ride.Destination = *req.Destination
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return err
		}
		ride.RideDate = date
	}
	if req.Time != nil {
		ride.RideTime = *req.Time
	}
	if req.DistanceKm != nil {
		ride.DistanceKm = *req.DistanceKm
	}
	if req.TotalSeats != nil {
		if *req.TotalSeats < booked {
			return models.ErrSeatReduction
		}
		ride.TotalSeats = *req.TotalSeats
	}
	ride.AvailableSeats = ride.TotalSeats - booked

	err = tx.QueryRowx(`
		UPDATE rides
		SET source = $2, destination = $3, ride_date = $4, ride_time = $5,
		    total_seats = $6, available_seats = $7, distance_km = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, ride.ID, ride.Source, ride.Destination, ride.RideDate, ride.RideTime,
		ride.TotalSeats, ride.AvailableSeats, ride.DistanceKm,
	).Scan(&ride.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update ride: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CancelledBooking describes one booking processed by CancelWithRefunds.
// The ride service uses it to send post-commit notifications.
type CancelledBooking struct {
	BookingID    uuid.UUID
	PassengerID  uuid.UUID
	SeatsBooked  int
	Amount       float64
	WasConfirmed bool
	Refunded     bool
}

// CancelWithRefunds transitions a ride to cancelled in a single transaction:
// every pending/confirmed booking becomes canceled_by_driver, confirmed
// bookings hand their seats back, and wallet-paid bookings are refunded with
// a ledger entry. Either everything commits or nothing does; notifications
// are the caller's post-commit concern.
func (r *RideRepository) CancelWithRefunds(rideID uuid.UUID) ([]CancelledBooking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE rides SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('scheduled', 'ongoing')
	`, rideID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel ride: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, models.ErrInvalidTransition
	}

	rows, err := tx.Queryx(`
		SELECT id, passenger_id, seats_booked, amount, status
		FROM bookings
		WHERE ride_id = $1 AND status IN ('pending', 'confirmed')
		FOR UPDATE
	`, rideID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	cancelled := []CancelledBooking{}
	for rows.Next() {
		var cb CancelledBooking
		var status models.BookingStatus
		if err := rows.Scan(&cb.BookingID, &cb.PassengerID, &cb.SeatsBooked, &cb.Amount, &status); err != nil {
			rows.Close()
			return nil, err
		}
		cb.WasConfirmed = status == models.BookingStatusConfirmed
		cancelled = append(cancelled, cb)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range cancelled {
		cb := &cancelled[i]

		_, err = tx.Exec(`
			UPDATE bookings SET status = 'canceled_by_driver', updated_at = NOW()
			WHERE id = $1
		`, cb.BookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to cancel booking %s: %w", cb.BookingID, err)
		}

		// Only confirmed bookings held seats
		if cb.WasConfirmed {
			_, err = tx.Exec(`
				UPDATE rides SET available_seats = available_seats + $2, updated_at = NOW()
				WHERE id = $1
			`, rideID, cb.SeatsBooked)
			if err != nil {
				return nil, fmt.Errorf("failed to restore seats for booking %s: %w", cb.BookingID, err)
			}
		}

		var walletPaid bool
		err = tx.QueryRowx(`
			SELECT EXISTS (
				SELECT 1 FROM payments
				WHERE booking_id = $1 AND method = 'wallet' AND status = 'completed'
			)
		`, cb.BookingID).Scan(&walletPaid)
		if err != nil {
			return nil, fmt.Errorf("failed to check payment for booking %s: %w", cb.BookingID, err)
		}
		if !walletPaid {
			continue
		}

		_, err = tx.Exec(`
			INSERT INTO wallets (id, user_id, balance)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id)
			DO UPDATE SET balance = wallets.balance + $3, updated_at = NOW()
		`, uuid.New(), cb.PassengerID, cb.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to refund wallet for booking %s: %w", cb.BookingID, err)
		}

		_, err = tx.Exec(`
			INSERT INTO wallet_transactions (id, user_id, amount, type, description)
			VALUES ($1, $2, $3, 'refund', $4)
		`, uuid.New(), cb.PassengerID, cb.Amount,
			fmt.Sprintf("Refund for booking %s (ride cancelled by driver)", cb.BookingID))
		if err != nil {
			return nil, fmt.Errorf("failed to record refund for booking %s: %w", cb.BookingID, err)
		}

		cb.Refunded = true
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return cancelled, nil
}

func (r *RideRepository) scanRide(row scanner) (*models.Ride, error) {
	ride, err := r.scanRideRow(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return ride, err
}

func (r *RideRepository) scanRideRow(row scanner) (*models.Ride, error) {
	ride := &models.Ride{}
	var vehicleID sql.NullString

	err := row.Scan(
		&ride.ID, &ride.DriverID, &vehicleID, &ride.Source, &ride.Destination,
		&ride.RideDate, &ride.RideTime, &ride.TotalSeats, &ride.AvailableSeats,
		&ride.FarePerKm, &ride.DistanceKm, &ride.Status,
		&ride.CreatedAt, &ride.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch ride: %w", err)
	}

	if vehicleID.Valid {
		id, parseErr := uuid.Parse(vehicleID.String)
		if parseErr == nil {
			ride.VehicleID = &id
		}
	}

	return ride, nil
}
