package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/models"
)

// BookingService owns the booking lifecycle and its seat accounting
type BookingService struct {
	bookingRepo  *database.BookingRepository
	rideRepo     *database.RideRepository
	pricing      *PricingService
	notification *NotificationService
	logger       *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	rideRepo *database.RideRepository,
	pricing *PricingService,
	notification *NotificationService,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		rideRepo:     rideRepo,
		pricing:      pricing,
		notification: notification,
		logger:       logger,
	}
}

// Create places a pending booking on a scheduled ride. Seats are only checked
// here for fast feedback; the binding check happens at confirmation.
func (s *BookingService) Create(passengerID uuid.UUID, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(req.RideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != models.RideStatusScheduled {
		return nil, models.ErrRideNotEditable
	}
	if ride.DriverID == passengerID {
		return nil, fmt.Errorf("you cannot book your own ride")
	}
	if ride.AvailableSeats < req.Seats {
		return nil, models.ErrSeatsUnavailable
	}

	booking := &models.Booking{
		RideID:      ride.ID,
		PassengerID: passengerID,
		SeatsBooked: req.Seats,
		Amount:      s.pricing.EstimateFare(ride.DistanceKm, req.Seats),
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("New booking request for your ride from %s to %s (%d seat(s)).",
		ride.Source, ride.Destination, req.Seats)
	if err := s.notification.Notify(ride.DriverID, message); err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).
			Warn("Failed to notify driver of new booking")
	}

	return booking, nil
}

// Get returns a booking visible to its passenger or the ride's driver
func (s *BookingService) Get(bookingID, userID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PassengerID != userID {
		ride, err := s.rideRepo.GetByID(booking.RideID)
		if err != nil {
			return nil, err
		}
		if ride.DriverID != userID {
			return nil, models.ErrNotOwner
		}
	}

	return booking, nil
}

// ListByPassenger returns the passenger's bookings
func (s *BookingService) ListByPassenger(passengerID uuid.UUID) ([]models.Booking, error) {
	return s.bookingRepo.ListByPassenger(passengerID)
}

// ListByRide returns a ride's bookings to its driver
func (s *BookingService) ListByRide(rideID, driverID uuid.UUID) ([]models.Booking, error) {
	ride, err := s.rideRepo.GetByID(rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, models.ErrNotOwner
	}

	return s.bookingRepo.ListByRide(rideID)
}

// Confirm lets the ride's driver accept a pending booking. The seats are
// deducted with a conditional decrement so concurrent confirmations cannot
// oversell the ride.
func (s *BookingService) Confirm(bookingID, driverID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(booking.RideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, models.ErrNotOwner
	}
	if booking.Status != models.BookingStatusPending {
		return nil, models.ErrBookingNotPending
	}

	if err := s.bookingRepo.Confirm(booking.ID, ride.ID, booking.SeatsBooked); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your booking for the ride from %s to %s on %s is confirmed.",
		ride.Source, ride.Destination, ride.RideDate.Format("2006-01-02"))
	if err := s.notification.Notify(booking.PassengerID, message); err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).
			Warn("Failed to notify passenger of confirmation")
	}

	return s.bookingRepo.GetByID(bookingID)
}

// Cancel lets the passenger cancel their own booking. Held seats are
// restored exactly once and completed wallet payments are refunded.
func (s *BookingService) Cancel(bookingID, passengerID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PassengerID != passengerID {
		return nil, models.ErrNotOwner
	}

	refunded, err := s.bookingRepo.CancelByPassenger(bookingID)
	if err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(booking.RideID)
	if err == nil {
		message := fmt.Sprintf("A passenger cancelled their booking (%d seat(s)) on your ride from %s to %s.",
			booking.SeatsBooked, ride.Source, ride.Destination)
		if refunded {
			message += " Their wallet payment was refunded."
		}
		if err := s.notification.Notify(ride.DriverID, message); err != nil {
			s.logger.WithError(err).WithField("booking_id", bookingID).
				Warn("Failed to notify driver of cancellation")
		}
	}

	return s.bookingRepo.GetByID(bookingID)
}

// UpdateStatus lets the ride's driver mark a confirmed booking in_progress
// or a started one completed
func (s *BookingService) UpdateStatus(bookingID, driverID uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(booking.RideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, models.ErrNotOwner
	}

	if err := s.bookingRepo.UpdateStatus(bookingID, status); err != nil {
		return nil, err
	}

	return s.bookingRepo.GetByID(bookingID)
}
