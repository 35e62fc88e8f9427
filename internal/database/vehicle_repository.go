package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/openride/rideshare-backend/internal/models"
)

// VehicleRepository handles database operations for the vehicles table
type VehicleRepository struct {
	db DB
}

// NewVehicleRepository creates a new VehicleRepository
func NewVehicleRepository(db DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a new vehicle with status pending
func (r *VehicleRepository) Create(vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, driver_id, make, model, plate_number, seats, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING status, created_at, updated_at
	`

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		vehicle.ID, vehicle.DriverID, vehicle.Make, vehicle.Model,
		vehicle.PlateNumber, vehicle.Seats,
	).Scan(&vehicle.Status, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("vehicle with plate %s already registered", vehicle.PlateNumber)
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	return nil
}

// GetByID retrieves a vehicle by ID
func (r *VehicleRepository) GetByID(vehicleID uuid.UUID) (*models.Vehicle, error) {
	query := `
		SELECT id, driver_id, make, model, plate_number, seats, status,
		       rejection_reason, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`

	vehicle := &models.Vehicle{}
	var status, reason sql.NullString
	err := r.db.QueryRow(query, vehicleID).Scan(
		&vehicle.ID, &vehicle.DriverID, &vehicle.Make, &vehicle.Model,
		&vehicle.PlateNumber, &vehicle.Seats, &status, &reason,
		&vehicle.CreatedAt, &vehicle.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch vehicle: %w", err)
	}
	if status.Valid {
		s := models.VerificationStatus(status.String)
		vehicle.Status = &s
	}
	if reason.Valid {
		vehicle.RejectionReason = &reason.String
	}

	return vehicle, nil
}

// ListByDriver returns a driver's vehicles
func (r *VehicleRepository) ListByDriver(driverID uuid.UUID) ([]models.Vehicle, error) {
	query := `
		SELECT id, driver_id, make, model, plate_number, seats, status,
		       rejection_reason, created_at, updated_at
		FROM vehicles
		WHERE driver_id = $1
		ORDER BY created_at DESC
	`

	return r.list(query, driverID)
}

// ListPending returns vehicles awaiting admin review
func (r *VehicleRepository) ListPending() ([]models.Vehicle, error) {
	query := `
		SELECT id, driver_id, make, model, plate_number, seats, status,
		       rejection_reason, created_at, updated_at
		FROM vehicles
		WHERE status = 'pending'
		ORDER BY created_at
	`

	return r.list(query)
}

// Review sets the verification outcome for a vehicle
func (r *VehicleRepository) Review(vehicleID uuid.UUID, status models.VerificationStatus, reason *string) error {
	query := `
		UPDATE vehicles
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, vehicleID, status, reason)
	if err != nil {
		return fmt.Errorf("failed to review vehicle: %w", err)
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

func (r *VehicleRepository) list(query string, args ...interface{}) ([]models.Vehicle, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		var vehicle models.Vehicle
		var status, reason sql.NullString
		err := rows.Scan(
			&vehicle.ID, &vehicle.DriverID, &vehicle.Make, &vehicle.Model,
			&vehicle.PlateNumber, &vehicle.Seats, &status, &reason,
			&vehicle.CreatedAt, &vehicle.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if status.Valid {
			s := models.VerificationStatus(status.String)
			vehicle.Status = &s
		}
		if reason.Valid {
			vehicle.RejectionReason = &reason.String
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, rows.Err()
}
