package scheduler

import (
	"context"
	"fmt"
	"time"

	"deal_deadline_notifier/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const defaultRunTimeout = 5 * time.Minute

type AlertScheduler struct {
	cronEngine   *cron.Cron
	alertService app.AlertService
	logger       *logrus.Entry
	cronSpec     string // e.g., "0 8 * * *" (8:00 AM daily)
	runTimeout   time.Duration
	now          func() time.Time
}

func NewAlertScheduler(
	alertService app.AlertService,
	logger *logrus.Entry,
	cronSpec string,
	location *time.Location,
) *AlertScheduler {
	if location == nil {
		location = time.Local
	}
	return &AlertScheduler{
		cronEngine:   cron.New(cron.WithLocation(location)),
		alertService: alertService,
		logger:       logger,
		cronSpec:     cronSpec,
		runTimeout:   defaultRunTimeout,
		now:          time.Now,
	}
}

// Start registers the deadline alert job and starts the cron engine.
func (s *AlertScheduler) Start() error {
	s.logger.Info("Starting alert scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.runOnce); err != nil {
		return fmt.Errorf("could not add deadline alert cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Alert scheduler started.")
	return nil
}

func (s *AlertScheduler) runOnce() {
	s.logger.Info("Cron job triggered for deadline alerts.")
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	summary, err := s.alertService.RunDeadlineAlerts(ctx, s.now())
	if err != nil {
		s.logger.WithError(err).Error("Scheduled deadline alert run failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"deals_found": summary.DealsFound,
		"emails_sent": summary.EmailsSent,
		"failed":      len(summary.Failed),
	}).Info("Scheduled deadline alert run completed")
}

func (s *AlertScheduler) Stop() {
	s.logger.Info("Stopping alert scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Alert scheduler gracefully stopped.")
}
