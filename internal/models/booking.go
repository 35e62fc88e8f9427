package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending             BookingStatus = "pending"
	BookingStatusConfirmed           BookingStatus = "confirmed"
	BookingStatusInProgress          BookingStatus = "in_progress"
	BookingStatusCompleted           BookingStatus = "completed"
	BookingStatusCanceledByDriver    BookingStatus = "canceled_by_driver"
	BookingStatusCanceledByPassenger BookingStatus = "canceled_by_passenger"
)

// HoldsSeat reports whether a booking in this status counts against the
// ride's available seats.
func (s BookingStatus) HoldsSeat() bool {
	return s == BookingStatusConfirmed || s == BookingStatusInProgress || s == BookingStatusCompleted
}

// IsCancelled reports whether the status is one of the two cancellation
// variants.
func (s BookingStatus) IsCancelled() bool {
	return s == BookingStatusCanceledByDriver || s == BookingStatusCanceledByPassenger
}

// IsTerminal reports whether no further transitions are allowed
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s.IsCancelled()
}

// Booking links a passenger to a ride
type Booking struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	RideID      uuid.UUID     `json:"ride_id" db:"ride_id"`
	PassengerID uuid.UUID     `json:"passenger_id" db:"passenger_id"`
	SeatsBooked int           `json:"seats_booked" db:"seats_booked"`
	Amount      float64       `json:"amount" db:"amount"`
	Status      BookingStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// CreateBookingRequest represents the booking payload
type CreateBookingRequest struct {
	RideID uuid.UUID `json:"ride_id" binding:"required"`
	Seats  int       `json:"seats" binding:"required,min=1"`
}

// Validate validates the booking payload
func (r *CreateBookingRequest) Validate() error {
	if r.Seats > 10 {
		return errors.New("maximum 10 seats can be booked at once")
	}
	return nil
}

// UpdateBookingStatusRequest represents a driver-side booking transition
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// Validate restricts driver-side transitions to the in-trip statuses
func (r *UpdateBookingStatusRequest) Validate() error {
	if r.Status != BookingStatusInProgress && r.Status != BookingStatusCompleted {
		return errors.New("status must be in_progress or completed")
	}
	return nil
}
