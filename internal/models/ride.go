package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RideStatus represents the lifecycle state of a ride
type RideStatus string

const (
	RideStatusScheduled RideStatus = "scheduled"
	RideStatusOngoing   RideStatus = "ongoing"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// FarePerKm is the fixed fare in currency units per seat per kilometre.
const FarePerKm = 10.0

// Ride represents a driver-offered trip with fixed seat capacity
type Ride struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	DriverID       uuid.UUID  `json:"driver_id" db:"driver_id"`
	VehicleID      *uuid.UUID `json:"vehicle_id,omitempty" db:"vehicle_id"`
	Source         string     `json:"source" db:"source"`
	Destination    string     `json:"destination" db:"destination"`
	RideDate       time.Time  `json:"ride_date" db:"ride_date"`
	RideTime       string     `json:"ride_time" db:"ride_time"`
	TotalSeats     int        `json:"total_seats" db:"total_seats"`
	AvailableSeats int        `json:"available_seats" db:"available_seats"`
	FarePerKm      float64    `json:"fare_per_km" db:"fare_per_km"`
	DistanceKm     float64    `json:"distance_km" db:"distance_km"`
	Status         RideStatus `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// EstimatedFare returns the per-seat fare for this ride
func (r *Ride) EstimatedFare() float64 {
	return FarePerKm * r.DistanceKm
}

// CanTransitionTo reports whether the ride may move to the target status.
// Completed and cancelled are terminal; completed is not reachable from
// cancelled.
func (r *Ride) CanTransitionTo(target RideStatus) bool {
	if r.Status == target {
		return false
	}
	switch r.Status {
	case RideStatusScheduled:
		return target == RideStatusOngoing || target == RideStatusCancelled
	case RideStatusOngoing:
		return target == RideStatusCompleted || target == RideStatusCancelled
	default:
		return false
	}
}

// CreateRideRequest represents the create-ride payload
type CreateRideRequest struct {
	Source      string     `json:"source" binding:"required"`
	Destination string     `json:"destination" binding:"required"`
	Date        string     `json:"date" binding:"required"`
	Time        string     `json:"time" binding:"required"`
	TotalSeats  int        `json:"total_seats" binding:"required,min=1"`
	DistanceKm  float64    `json:"distance_km" binding:"required,gt=0"`
	VehicleID   *uuid.UUID `json:"vehicle_id,omitempty"`
}

// Validate validates the create-ride payload and normalises the time field
func (r *CreateRideRequest) Validate() error {
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	normalised, err := NormalizeTime(r.Time)
	if err != nil {
		return err
	}
	r.Time = normalised
	if r.TotalSeats > 20 {
		return errors.New("total_seats cannot exceed 20")
	}
	return nil
}

// NormalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS
func NormalizeTime(value string) (string, error) {
	if t, err := time.Parse("15:04:05", value); err == nil {
		return t.Format("15:04:05"), nil
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		return "", fmt.Errorf("time must be in HH:MM or HH:MM:SS format")
	}
	return t.Format("15:04:05"), nil
}

// UpdateRideRequest represents an edit of a scheduled ride
type UpdateRideRequest struct {
	Source      *string  `json:"source,omitempty"`
	Destination *string  `json:"destination,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Time        *string  `json:"time,omitempty"`
	TotalSeats  *int     `json:"total_seats,omitempty"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
}

// Validate normalises the optional date/time fields
func (r *UpdateRideRequest) Validate() error {
	if r.Date != nil {
		if _, err := time.Parse("2006-01-02", *r.Date); err != nil {
			return errors.New("date must be in YYYY-MM-DD format")
		}
	}
	if r.Time != nil {
		normalised, err := NormalizeTime(*r.Time)
		if err != nil {
			return err
		}
		r.Time = &normalised
	}
	if r.TotalSeats != nil && *r.TotalSeats < 1 {
		return errors.New("total_seats must be at least 1")
	}
	if r.DistanceKm != nil && *r.DistanceKm <= 0 {
		return errors.New("distance_km must be positive")
	}
	return nil
}

// UpdateRideStatusRequest represents a ride status transition
type UpdateRideStatusRequest struct {
	Status RideStatus `json:"status" binding:"required"`
}

// Validate checks the target status is a known ride status
func (r *UpdateRideStatusRequest) Validate() error {
	switch r.Status {
	case RideStatusScheduled, RideStatusOngoing, RideStatusCompleted, RideStatusCancelled:
		return nil
	default:
		return fmt.Errorf("status must be one of: scheduled, ongoing, completed, cancelled")
	}
}

// SearchRidesParams holds the ride search filters
type SearchRidesParams struct {
	Source      string
	Destination string
	Date        *time.Time
}

// RideSearchResult is a ride decorated with its computed per-seat fare
type RideSearchResult struct {
	Ride
	EstimatedFare float64 `json:"estimated_fare"`
	DriverName    string  `json:"driver_name" db:"driver_name"`
}
