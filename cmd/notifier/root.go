package main

import (
	"fmt"
	"os"

	"deal_deadline_notifier/internal/infra/config"
	"deal_deadline_notifier/internal/infra/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfg *config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "notifier",
	Short: "DD deadline alert notifier for the deal dashboard",
	Long: `notifier emails the people responsible for a deal when its due-diligence
deadline is close. It serves an authenticated HTTP trigger for an external
scheduler, can run the job on its own cron schedule, and can run it once
from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("could not load application configuration: %w", err)
		}
		logger.Init(cfg)
		logger.Log.WithFields(logrus.Fields{
			"log_level":      cfg.LogLevel,
			"environment":    cfg.Environment,
			"lookahead_days": cfg.LookaheadDays,
			"urgency_hours":  cfg.UrgencyHours,
			"failure_policy": cfg.FailurePolicy,
			"telegram":       cfg.TelegramMirrorEnabled(),
		}).Info("Configuration loaded")
		return nil
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
