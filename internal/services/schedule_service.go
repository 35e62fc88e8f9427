package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/models"
)

// ScheduleService manages recurring ride schedules and materialises them
// into concrete scheduled rides
type ScheduleService struct {
	scheduleRepo *database.RideScheduleRepository
	rideRepo     *database.RideRepository
	parser       cron.ScheduleParser
	logger       *logrus.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	scheduleRepo *database.RideScheduleRepository,
	rideRepo *database.RideRepository,
	logger *logrus.Logger,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		rideRepo:     rideRepo,
		parser:       cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		logger:       logger,
	}
}

// Create registers a recurring ride schedule for a driver
func (s *ScheduleService) Create(driverID uuid.UUID, req *models.CreateRideScheduleRequest) (*models.RideSchedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.parser.Parse(req.CronExpr); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	schedule := &models.RideSchedule{
		DriverID:    driverID,
		Source:      req.Source,
		Destination: req.Destination,
		CronExpr:    req.CronExpr,
		RideTime:    req.Time,
		TotalSeats:  req.TotalSeats,
		DistanceKm:  req.DistanceKm,
	}

	if err := s.scheduleRepo.Create(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// ListByDriver returns the driver's recurring schedules
func (s *ScheduleService) ListByDriver(driverID uuid.UUID) ([]models.RideSchedule, error) {
	return s.scheduleRepo.ListByDriver(driverID)
}

// SetActive toggles one of the driver's schedules
func (s *ScheduleService) SetActive(scheduleID, driverID uuid.UUID, active bool) error {
	return s.scheduleRepo.SetActive(scheduleID, driverID, active)
}

// GenerateDueRides materialises every active schedule whose cron expression
// fires within the next day into a scheduled ride. It is invoked by the cron
// runner; one failing schedule never blocks the rest.
func (s *ScheduleService) GenerateDueRides() {
	schedules, err := s.scheduleRepo.ListActive()
	if err != nil {
		s.logger.WithError(err).Error("Failed to list active ride schedules")
		return
	}

	now := time.Now()
	generated := 0
	for _, schedule := range schedules {
		sched, err := s.parser.Parse(schedule.CronExpr)
		if err != nil {
			s.logger.WithError(err).WithField("schedule_id", schedule.ID).
				Warn("Skipping schedule with invalid cron expression")
			continue
		}

		next := sched.Next(now)
		if next.IsZero() || next.Sub(now) > 24*time.Hour {
			continue
		}
		if schedule.LastRunAt != nil && !schedule.LastRunAt.Before(next.Add(-24*time.Hour)) {
			// Already materialised for this occurrence
			continue
		}

		ride := &models.Ride{
			DriverID:       schedule.DriverID,
			Source:         schedule.Source,
			Destination:    schedule.Destination,
			RideDate:       next,
			RideTime:       schedule.RideTime,
			TotalSeats:     schedule.TotalSeats,
			AvailableSeats: schedule.TotalSeats,
			DistanceKm:     schedule.DistanceKm,
			Status:         models.RideStatusScheduled,
		}
		if err := s.rideRepo.Create(ride); err != nil {
			s.logger.WithError(err).WithField("schedule_id", schedule.ID).
				Error("Failed to generate ride from schedule")
			continue
		}
		if err := s.scheduleRepo.TouchLastRun(schedule.ID); err != nil {
			s.logger.WithError(err).WithField("schedule_id", schedule.ID).
				Warn("Failed to stamp schedule run")
		}
		generated++
	}

	if generated > 0 {
		s.logger.WithField("count", generated).Info("Generated rides from schedules")
	}
}
