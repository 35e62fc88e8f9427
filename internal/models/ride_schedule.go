package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// RideSchedule is a recurring-ride descriptor owned by a driver. The cron
// service materialises active schedules into scheduled rides.
type RideSchedule struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	DriverID    uuid.UUID  `json:"driver_id" db:"driver_id"`
	Source      string     `json:"source" db:"source"`
	Destination string     `json:"destination" db:"destination"`
	CronExpr    string     `json:"cron_expr" db:"cron_expr"`
	RideTime    string     `json:"ride_time" db:"ride_time"`
	TotalSeats  int        `json:"total_seats" db:"total_seats"`
	DistanceKm  float64    `json:"distance_km" db:"distance_km"`
	Active      bool       `json:"active" db:"active"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty" db:"last_run_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateRideScheduleRequest represents the recurring-ride payload
type CreateRideScheduleRequest struct {
	Source      string  `json:"source" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	CronExpr    string  `json:"cron_expr" binding:"required"`
	Time        string  `json:"time" binding:"required"`
	TotalSeats  int     `json:"total_seats" binding:"required,min=1"`
	DistanceKm  float64 `json:"distance_km" binding:"required,gt=0"`
}

// Validate normalises the time field; the cron expression is validated by
// the schedule service against the cron parser.
func (r *CreateRideScheduleRequest) Validate() error {
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

// RideWaypoint is an ordered point attached to a ride
type RideWaypoint struct {
	ID        uuid.UUID `json:"id" db:"id"`
	RideID    uuid.UUID `json:"ride_id" db:"ride_id"`
	Name      string    `json:"name" db:"name"`
	Lat       float64   `json:"lat" db:"lat"`
	Lng       float64   `json:"lng" db:"lng"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AddWaypointRequest represents the waypoint payload
type AddWaypointRequest struct {
	Name     string  `json:"name" binding:"required"`
	Lat      float64 `json:"lat" binding:"required"`
	Lng      float64 `json:"lng" binding:"required"`
	Position int     `json:"position" binding:"min=0"`
}
