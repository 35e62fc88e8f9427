package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/models"
)

// RideService owns the ride lifecycle: creation with driver verification
// gating, search, editing, and status transitions with their fan-out effects.
type RideService struct {
	rideRepo     *database.RideRepository
	bookingRepo  *database.BookingRepository
	documentRepo *database.DriverDocumentRepository
	vehicleRepo  *database.VehicleRepository
	safetyRepo   *database.SafetyCheckRepository
	notification *NotificationService
	logger       *logrus.Logger
}

// NewRideService creates a new RideService
func NewRideService(
	rideRepo *database.RideRepository,
	bookingRepo *database.BookingRepository,
	documentRepo *database.DriverDocumentRepository,
	vehicleRepo *database.VehicleRepository,
	safetyRepo *database.SafetyCheckRepository,
	notification *NotificationService,
	logger *logrus.Logger,
) *RideService {
	return &RideService{
		rideRepo:     rideRepo,
		bookingRepo:  bookingRepo,
		documentRepo: documentRepo,
		vehicleRepo:  vehicleRepo,
		safetyRepo:   safetyRepo,
		notification: notification,
		logger:       logger,
	}
}

// Create offers a new ride. A driver who has submitted documents needs at
// least one approved; a driver with none on file passes through. An attached
// vehicle must belong to them.
func (s *RideService) Create(driverID uuid.UUID, req *models.CreateRideRequest) (*models.Ride, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total, approved, err := s.documentRepo.CountByDriver(driverID)
	if err != nil {
		return nil, err
	}
	if total > 0 && approved == 0 {
		return nil, models.ErrDocumentsUnverified
	}

	if req.VehicleID != nil {
		vehicle, err := s.vehicleRepo.GetByID(*req.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle.DriverID != driverID {
			return nil, models.ErrNotOwner
		}
	}

	rideDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	ride := &models.Ride{
		DriverID:       driverID,
		VehicleID:      req.VehicleID,
		Source:         req.Source,
		Destination:    req.Destination,
		RideDate:       rideDate,
		RideTime:       req.Time,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		DistanceKm:     req.DistanceKm,
		Status:         models.RideStatusScheduled,
	}

	if err := s.rideRepo.Create(ride); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ride_id":   ride.ID,
		"driver_id": driverID,
	}).Info("Ride created")

	return ride, nil
}

// Get returns one ride by ID
func (s *RideService) Get(rideID uuid.UUID) (*models.Ride, error) {
	return s.rideRepo.GetByID(rideID)
}

// Search returns scheduled rides matching the filters, with computed fares
func (s *RideService) Search(params models.SearchRidesParams) ([]models.RideSearchResult, error) {
	return s.rideRepo.Search(params)
}

// ListByDriver returns all rides offered by a driver
func (s *RideService) ListByDriver(driverID uuid.UUID) ([]models.Ride, error) {
	return s.rideRepo.ListByDriver(driverID)
}

// Update edits a scheduled ride owned by the driver. Seat totals can never
// drop below what is already booked.
func (s *RideService) Update(rideID, driverID uuid.UUID, req *models.UpdateRideRequest) (*models.Ride, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, models.ErrNotOwner
	}
	if ride.Status != models.RideStatusScheduled {
		return nil, models.ErrRideNotEditable
	}

	if err := s.rideRepo.Update(ride, req); err != nil {
		return nil, err
	}

	return s.rideRepo.GetByID(rideID)
}

// UpdateStatus applies a lifecycle transition to the driver's ride.
// Cancellation cancels every active booking, restores nothing the bookings
// did not hold, and refunds wallet payments atomically; passengers are
// notified after the commit. Completion creates a night-ride safety check
// per confirmed booking and notifies each passenger.
func (s *RideService) UpdateStatus(rideID, driverID uuid.UUID, target models.RideStatus) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, models.ErrNotOwner
	}
	if !ride.CanTransitionTo(target) {
		return nil, models.ErrInvalidTransition
	}

	switch target {
	case models.RideStatusCancelled:
		if err := s.cancel(ride); err != nil {
			return nil, err
		}
	case models.RideStatusCompleted:
		if err := s.complete(ride); err != nil {
			return nil, err
		}
	default:
		if err := s.rideRepo.UpdateStatus(rideID, target); err != nil {
			return nil, err
		}
	}

	return s.rideRepo.GetByID(rideID)
}

func (s *RideService) cancel(ride *models.Ride) error {
	cancelled, err := s.rideRepo.CancelWithRefunds(ride.ID)
	if err != nil {
		return err
	}

	// The cancellation is committed; notifications must not undo it
	for _, cb := range cancelled {
		message := fmt.Sprintf("Your ride from %s to %s on %s was cancelled by the driver.",
			ride.Source, ride.Destination, ride.RideDate.Format("2006-01-02"))
		if cb.Refunded {
			message += fmt.Sprintf(" %.2f has been refunded to your wallet.", cb.Amount)
		}
		if err := s.notification.Notify(cb.PassengerID, message); err != nil {
			s.logger.WithError(err).WithField("booking_id", cb.BookingID).
				Warn("Failed to notify passenger of cancellation")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"ride_id":            ride.ID,
		"cancelled_bookings": len(cancelled),
	}).Info("Ride cancelled")

	return nil
}

func (s *RideService) complete(ride *models.Ride) error {
	if err := s.rideRepo.UpdateStatus(ride.ID, models.RideStatusCompleted); err != nil {
		return err
	}

	bookings, err := s.bookingRepo.ListConfirmedByRide(ride.ID)
	if err != nil {
		s.logger.WithError(err).WithField("ride_id", ride.ID).
			Warn("Failed to list bookings for safety checks")
		return nil
	}

	completedAt := time.Now().UTC()
	for _, booking := range bookings {
		// One failed check must not block the remaining passengers
		check := &models.NightRideSafetyCheck{
			BookingID:   booking.ID,
			RideID:      ride.ID,
			PassengerID: booking.PassengerID,
			CompletedAt: completedAt,
		}
		if err := s.safetyRepo.Create(check); err != nil {
			s.logger.WithError(err).WithField("booking_id", booking.ID).
				Warn("Failed to create safety check")
			continue
		}

		message := fmt.Sprintf("Your ride from %s to %s is complete. Tap 'I reached safely' to let us know you arrived.",
			ride.Source, ride.Destination)
		if err := s.notification.Notify(booking.PassengerID, message); err != nil {
			s.logger.WithError(err).WithField("booking_id", booking.ID).
				Warn("Failed to notify passenger of completion")
		}
	}

	return nil
}
