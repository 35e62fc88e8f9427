package services

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService runs the background jobs on a schedule
type CronService struct {
	cron        *cron.Cron
	scheduleSvc *ScheduleService
	logger      *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(scheduleSvc *ScheduleService, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:        cron.New(),
		scheduleSvc: scheduleSvc,
		logger:      logger,
	}
}

// Start registers and starts all jobs
func (s *CronService) Start() error {
	// Materialise recurring ride schedules hourly
	_, err := s.cron.AddFunc("@hourly", s.scheduleSvc.GenerateDueRides)
	if err != nil {
		return fmt.Errorf("failed to schedule ride generation job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Cron service started")

	// Catch up immediately on boot
	go s.scheduleSvc.GenerateDueRides()

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}
