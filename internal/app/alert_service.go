// internal/app/alert_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"deal_deadline_notifier/internal/domain/alert"
	"deal_deadline_notifier/internal/domain/deal"
	"deal_deadline_notifier/internal/domain/delivery"
	"deal_deadline_notifier/internal/domain/user"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AlertService defines the DD deadline alert operations.
type AlertService interface {
	// RunDeadlineAlerts finds deals due soon, resolves their recipients
	// and sends one alert per deal.
	RunDeadlineAlerts(ctx context.Context, now time.Time) (*alert.Summary, error)
	// PlanDeadlineAlerts computes the same alerts without sending them.
	PlanDeadlineAlerts(ctx context.Context, now time.Time) (*Plan, error)
}

// AlertSettings are the tunables of a run.
type AlertSettings struct {
	FromEmail           string
	FallbackAdminEmails []string
	AdminRoles          []string
	LookaheadDays       int            // Window is [today, today+LookaheadDays]
	UrgencyHours        int            // Alert only when hours left <= UrgencyHours; 0 disables the check
	Policy              alert.FailurePolicy
	Location            *time.Location // Zone of the end-of-deadline-day instant
	DashboardURL        string
}

// PlannedAlert is one alert the run would send.
type PlannedAlert struct {
	Deal       *deal.Deal
	HoursLeft  int
	Recipients []string
	Message    delivery.Message
}

// Plan is the outcome of a dry run.
type Plan struct {
	DealsFound int
	Alerts     []*PlannedAlert
	Skipped    []uuid.UUID // Deals without any reachable recipient
}

// AlertServiceImpl implements the AlertService interface.
type AlertServiceImpl struct {
	dealRepo  deal.Repository
	directory user.Directory
	sender    delivery.Sender
	settings  AlertSettings
	logger    *logrus.Entry
}

func NewAlertServiceImpl(
	dr deal.Repository,
	dir user.Directory,
	sender delivery.Sender,
	settings AlertSettings,
	logger *logrus.Entry,
) *AlertServiceImpl {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.Policy == "" {
		settings.Policy = alert.PolicyAbort
	}
	return &AlertServiceImpl{
		dealRepo:  dr,
		directory: dir,
		sender:    sender,
		settings:  settings,
		logger:    logger,
	}
}

// RunDeadlineAlerts sends the alerts of one run. Deals are handled one at
// a time. Under PolicyAbort the first failed send ends the run with an
// *alert.DeliveryError; alerts sent before it stay sent.
func (s *AlertServiceImpl) RunDeadlineAlerts(ctx context.Context, now time.Time) (*alert.Summary, error) {
	runLogger := s.logger.WithFields(logrus.Fields{
		"run_id": uuid.New().String(),
		"now":    now.Format(time.RFC3339),
		"policy": s.settings.Policy,
	})
	runLogger.Info("Starting DD deadline alert run")

	summary := alert.NewSummary()
	found, _, err := s.walkDueDeals(ctx, now, runLogger, func(p *PlannedAlert) error {
		dealLogger := runLogger.WithFields(logrus.Fields{
			"deal_id":    p.Deal.ID,
			"assignment": p.Deal.Assignment.Status(),
			"recipients": p.Recipients,
		})

		if err := s.sender.Send(ctx, p.Message); err != nil {
			if s.settings.Policy == alert.PolicyContinue {
				dealLogger.WithError(err).Error("Failed to send DD alert, continuing with next deal")
				summary.Failed = append(summary.Failed, alert.FailedAlert{
					DealID:     p.Deal.ID,
					Recipients: p.Recipients,
					Error:      err.Error(),
				})
				return nil
			}
			dealLogger.WithError(err).Error("Failed to send DD alert, aborting run")
			return &alert.DeliveryError{DealID: p.Deal.ID, Sent: summary.Sent, Err: err}
		}

		dealLogger.Info("DD alert sent")
		summary.Sent = append(summary.Sent, alert.SentAlert{DealID: p.Deal.ID, Recipients: p.Recipients})
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.DealsFound = found
	summary.EmailsSent = len(summary.Sent)
	runLogger.WithFields(logrus.Fields{
		"deals_found": summary.DealsFound,
		"emails_sent": summary.EmailsSent,
		"failed":      len(summary.Failed),
	}).Info("DD deadline alert run finished")
	return summary, nil
}

// PlanDeadlineAlerts resolves every alert of a run without delivering it.
func (s *AlertServiceImpl) PlanDeadlineAlerts(ctx context.Context, now time.Time) (*Plan, error) {
	runLogger := s.logger.WithFields(logrus.Fields{
		"run_id":  uuid.New().String(),
		"now":     now.Format(time.RFC3339),
		"dry_run": true,
	})

	plan := &Plan{}
	found, skipped, err := s.walkDueDeals(ctx, now, runLogger, func(p *PlannedAlert) error {
		plan.Alerts = append(plan.Alerts, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	plan.DealsFound = found
	plan.Skipped = skipped
	return plan, nil
}

// walkDueDeals loads the due deals of a run and hands each deal that has
// at least one recipient to visit, in store order. It returns the number
// of due deals and the ids of the deals skipped for lack of recipients.
func (s *AlertServiceImpl) walkDueDeals(
	ctx context.Context,
	now time.Time,
	runLogger *logrus.Entry,
	visit func(*PlannedAlert) error,
) (int, []uuid.UUID, error) {
	// 1. Candidate deals in the lookahead window
	from, to := lookaheadWindow(now, s.settings.LookaheadDays)
	candidates, err := s.dealRepo.ListByDeadlineRange(ctx, from, to)
	if err != nil {
		runLogger.WithError(err).Error("Failed to query deals")
		return 0, nil, &alert.QueryError{Query: alert.QueryDeals, Err: err}
	}

	// 2. Urgency threshold
	due := make([]*deal.Deal, 0, len(candidates))
	for _, d := range candidates {
		if !inWindow(d, from, to) {
			continue
		}
		if s.settings.UrgencyHours > 0 && hoursLeft(d, now, s.settings.Location) > s.settings.UrgencyHours {
			continue
		}
		due = append(due, d)
	}
	runLogger.WithFields(logrus.Fields{
		"window_from": from.Format(deal.DateLayout),
		"window_to":   to.Format(deal.DateLayout),
		"candidates":  len(candidates),
		"due":         len(due),
	}).Info("Loaded deals with upcoming DD deadlines")
	if len(due) == 0 {
		return 0, nil, nil
	}

	// 3. Admin roster and profiles
	adminIDs, err := s.directory.ListUserIDsByRole(ctx, s.settings.AdminRoles)
	if err != nil {
		runLogger.WithError(err).Error("Failed to query admin roles")
		return 0, nil, &alert.QueryError{Query: alert.QueryAdminRoles, Err: err}
	}
	profiles, err := s.directory.ListProfiles(ctx)
	if err != nil {
		runLogger.WithError(err).Error("Failed to query user profiles")
		return 0, nil, &alert.QueryError{Query: alert.QueryProfiles, Err: err}
	}
	profileByID := make(map[uuid.UUID]*user.Profile, len(profiles))
	for _, p := range profiles {
		profileByID[p.UserID] = p
	}

	resolver := newEmailResolver(s.directory, profiles, runLogger)
	admins := resolver.adminEmails(ctx, adminIDs, s.settings.FallbackAdminEmails)
	runLogger.WithField("admin_emails", len(admins)).Debug("Resolved admin recipients")

	// 4. One alert per deal
	var skipped []uuid.UUID
	for _, d := range due {
		recipients := resolver.recipientsFor(ctx, d, admins)
		if len(recipients) == 0 {
			skipLogger := runLogger.WithFields(logrus.Fields{
				"deal_id":    d.ID,
				"assignment": d.Assignment.Status(),
			})
			if d.Assignment.IsAssigned() {
				skipLogger.Warn("Assignee has no email and no admin emails are known, skipping deal")
			} else {
				skipLogger.Warn("Unassigned deal and no admin emails are known, skipping deal")
			}
			skipped = append(skipped, d.ID)
			continue
		}

		left := hoursLeft(d, now, s.settings.Location)
		msg, err := renderAlert(s.settings.FromEmail, d, repDisplayName(d, profileByID), left, recipients, s.settings.DashboardURL)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to render alert for deal %s: %w", d.ID, err)
		}

		if err := visit(&PlannedAlert{Deal: d, HoursLeft: left, Recipients: recipients, Message: msg}); err != nil {
			return 0, nil, err
		}
	}
	return len(due), skipped, nil
}

func repDisplayName(d *deal.Deal, profiles map[uuid.UUID]*user.Profile) string {
	repID, ok := d.Assignment.RepID()
	if !ok {
		return unassignedRepLabel
	}
	return profiles[repID].DisplayName(unnamedRepLabel)
}
