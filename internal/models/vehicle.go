package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle belongs to a driver; verification status may be null for vehicles
// registered before verification was introduced.
type Vehicle struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	DriverID        uuid.UUID           `json:"driver_id" db:"driver_id"`
	Make            string              `json:"make" db:"make"`
	Model           string              `json:"model" db:"model"`
	PlateNumber     string              `json:"plate_number" db:"plate_number"`
	Seats           int                 `json:"seats" db:"seats"`
	Status          *VerificationStatus `json:"status,omitempty" db:"status"`
	RejectionReason *string             `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

// CreateVehicleRequest represents the vehicle registration payload
type CreateVehicleRequest struct {
	Make        string `json:"make" binding:"required"`
	Model       string `json:"model" binding:"required"`
	PlateNumber string `json:"plate_number" binding:"required"`
	Seats       int    `json:"seats" binding:"required,min=1"`
}
