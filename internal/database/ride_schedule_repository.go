package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// RideScheduleRepository handles database operations for recurring ride
// schedules and ride waypoints
type RideScheduleRepository struct {
	db DB
}

// NewRideScheduleRepository creates a new RideScheduleRepository
func NewRideScheduleRepository(db DB) *RideScheduleRepository {
	return &RideScheduleRepository{db: db}
}

// Create inserts a recurring ride schedule for a driver
func (r *RideScheduleRepository) Create(schedule *models.RideSchedule) error {
	query := `
		INSERT INTO ride_schedules
			(id, driver_id, source, destination, cron_expr, ride_time,
			 total_seats, distance_km, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING active, created_at, updated_at
	`

	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		schedule.ID, schedule.DriverID, schedule.Source, schedule.Destination,
		schedule.CronExpr, schedule.RideTime, schedule.TotalSeats, schedule.DistanceKm,
	).Scan(&schedule.Active, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ride schedule: %w", err)
	}

	return nil
}

// GetByID retrieves a ride schedule by ID
func (r *RideScheduleRepository) GetByID(scheduleID uuid.UUID) (*models.RideSchedule, error) {
	query := `
		SELECT id, driver_id, source, destination, cron_expr, ride_time,
		       total_seats, distance_km, active, last_run_at, created_at, updated_at
		FROM ride_schedules
		WHERE id = $1
	`

	schedule := &models.RideSchedule{}
	err := r.db.QueryRow(query, scheduleID).Scan(
		&schedule.ID, &schedule.DriverID, &schedule.Source, &schedule.Destination,
		&schedule.CronExpr, &schedule.RideTime, &schedule.TotalSeats,
		&schedule.DistanceKm, &schedule.Active, &schedule.LastRunAt,
		&schedule.CreatedAt, &schedule.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch ride schedule: %w", err)
	}

	return schedule, nil
}

// ListByDriver returns all schedules owned by a driver
func (r *RideScheduleRepository) ListByDriver(driverID uuid.UUID) ([]models.RideSchedule, error) {
	query := `
		SELECT id, driver_id, source, destination, cron_expr, ride_time,
		       total_seats, distance_km, active, last_run_at, created_at, updated_at
		FROM ride_schedules
		WHERE driver_id = $1
		ORDER BY created_at DESC
	`

	return r.list(query, driverID)
}

// ListActive returns every active schedule, for the generator run
func (r *RideScheduleRepository) ListActive() ([]models.RideSchedule, error) {
	query := `
		SELECT id, driver_id, source, destination, cron_expr, ride_time,
		       total_seats, distance_km, active, last_run_at, created_at, updated_at
		FROM ride_schedules
		WHERE active = TRUE
		ORDER BY created_at
	`

	return r.list(query)
}

// SetActive toggles a schedule on or off, checking ownership
func (r *RideScheduleRepository) SetActive(scheduleID, driverID uuid.UUID, active bool) error {
	result, err := r.db.Exec(`
		UPDATE ride_schedules SET active = $3, updated_at = NOW()
		WHERE id = $1 AND driver_id = $2
	`, scheduleID, driverID, active)
	if err != nil {
		return fmt.Errorf("failed to update ride schedule: %w", err)
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

// TouchLastRun stamps the schedule after the generator materialises it
func (r *RideScheduleRepository) TouchLastRun(scheduleID uuid.UUID) error {
	_, err := r.db.Exec(`
		UPDATE ride_schedules SET last_run_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to stamp ride schedule: %w", err)
	}
	return nil
}

// AddWaypoint appends an ordered waypoint to a ride
func (r *RideScheduleRepository) AddWaypoint(waypoint *models.RideWaypoint) error {
	query := `
		INSERT INTO ride_waypoints (id, ride_id, name, lat, lng, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	if waypoint.ID == uuid.Nil {
		waypoint.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		waypoint.ID, waypoint.RideID, waypoint.Name,
		waypoint.Lat, waypoint.Lng, waypoint.Position,
	).Scan(&waypoint.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to add waypoint: %w", err)
	}

	return nil
}

// ListWaypoints returns a ride's waypoints in position order
func (r *RideScheduleRepository) ListWaypoints(rideID uuid.UUID) ([]models.RideWaypoint, error) {
	rows, err := r.db.Query(`
		SELECT id, ride_id, name, lat, lng, position, created_at
		FROM ride_waypoints
		WHERE ride_id = $1
		ORDER BY position
	`, rideID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waypoints: %w", err)
	}
	defer rows.Close()

	waypoints := []models.RideWaypoint{}
	for rows.Next() {
		var wp models.RideWaypoint
		err := rows.Scan(
			&wp.ID, &wp.RideID, &wp.Name, &wp.Lat, &wp.Lng,
			&wp.Position, &wp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		waypoints = append(waypoints, wp)
	}

	return waypoints, rows.Err()
}

func (r *RideScheduleRepository) list(query string, args ...interface{}) ([]models.RideSchedule, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ride schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.RideSchedule{}
	for rows.Next() {
		var schedule models.RideSchedule
		err := rows.Scan(
			&schedule.ID, &schedule.DriverID, &schedule.Source, &schedule.Destination,
			&schedule.CronExpr, &schedule.RideTime, &schedule.TotalSeats,
			&schedule.DistanceKm, &schedule.Active, &schedule.LastRunAt,
			&schedule.CreatedAt, &schedule.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	return schedules, rows.Err()
}
