package models

import (
	"time"

	"github.com/google/uuid"
)

// NightRideSafetyCheck is created per confirmed booking when its ride is
// marked completed. The passenger acknowledges it with a "safe" action.
type NightRideSafetyCheck struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	BookingID      uuid.UUID  `json:"booking_id" db:"booking_id"`
	RideID         uuid.UUID  `json:"ride_id" db:"ride_id"`
	PassengerID    uuid.UUID  `json:"passenger_id" db:"passenger_id"`
	CompletedAt    time.Time  `json:"completed_at" db:"completed_at"`
	Acknowledged   bool       `json:"acknowledged" db:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty" db:"acknowledged_at"`
}
