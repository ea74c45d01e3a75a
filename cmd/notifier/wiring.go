package main

import (
	"context"
	"database/sql"
	"fmt"

	"deal_deadline_notifier/internal/app"
	"deal_deadline_notifier/internal/domain/delivery"
	"deal_deadline_notifier/internal/infra/config"
	idb "deal_deadline_notifier/internal/infra/database"
	"deal_deadline_notifier/internal/infra/logger"
	"deal_deadline_notifier/internal/infra/mailer"
	"deal_deadline_notifier/internal/infra/telegram"
)

// alertStack is the alert service together with the resources it holds.
type alertStack struct {
	service *app.AlertServiceImpl
	db      *sql.DB
}

func (s *alertStack) Close() {
	s.db.Close()
}

func buildAlertStack(ctx context.Context, cfg *config.AppConfig, sender delivery.Sender) (*alertStack, error) {
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	logger.Log.Info("Database connection established successfully.")

	dealRepo := idb.NewPostgresDealRepository(db)
	directory := idb.NewPostgresUserDirectory(db)

	svc := app.NewAlertServiceImpl(dealRepo, directory, sender, alertSettings(cfg), logger.Component("alert_service"))
	return &alertStack{service: svc, db: db}, nil
}

// buildSender returns the Resend sender. When a Telegram mirror is
// configured, delivered alerts are copied to it on a best-effort basis.
func buildSender(cfg *config.AppConfig) (delivery.Sender, error) {
	email := mailer.NewResendSender(cfg.ResendAPIKey, logger.Component("resend"))
	if !cfg.TelegramMirrorEnabled() {
		return email, nil
	}

	mirror, err := telegram.NewMirrorSender(cfg.TelegramToken, cfg.TelegramAlertChatID, "", logger.Component("telegram"))
	if err != nil {
		return nil, err
	}
	return mailer.NewMultiSender(
		mailer.NamedSender{Name: "email", Sender: email},
		logger.Component("mirror"),
		mailer.NamedSender{Name: "telegram", Sender: mirror},
	), nil
}

func alertSettings(cfg *config.AppConfig) app.AlertSettings {
	return app.AlertSettings{
		FromEmail:           cfg.AlertFromEmail,
		FallbackAdminEmails: cfg.AdminAlertEmails,
		AdminRoles:          cfg.AdminRoles,
		LookaheadDays:       cfg.LookaheadDays,
		UrgencyHours:        cfg.UrgencyHours,
		Policy:              cfg.FailurePolicy,
		Location:            cfg.Location,
		DashboardURL:        cfg.DashboardURL,
	}
}
