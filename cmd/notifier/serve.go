package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deal_deadline_notifier/internal/app"
	"deal_deadline_notifier/internal/infra/httpapi"
	"deal_deadline_notifier/internal/infra/logger"
	"deal_deadline_notifier/internal/infra/scheduler"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the DD alert trigger and run the optional in-process schedule",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	mainLogger := logger.Component("main")

	var alertService app.AlertService
	configErr := cfg.Validate()
	if configErr != nil {
		mainLogger.WithError(configErr).Warn("Configuration incomplete, the trigger will report it on every call")
	} else {
		sender, err := buildSender(cfg)
		if err != nil {
			return err
		}
		stack, err := buildAlertStack(cmd.Context(), cfg, sender)
		if err != nil {
			return err
		}
		defer stack.Close()
		alertService = stack.service
	}

	if alertService != nil && cfg.CronSpecDDAlerts != "" {
		alertScheduler := scheduler.NewAlertScheduler(alertService, logger.Component("scheduler"), cfg.CronSpecDDAlerts, cfg.Location)
		if err := alertScheduler.Start(); err != nil {
			return err
		}
		defer alertScheduler.Stop()
	}

	server := httpapi.NewServer(alertService, cfg.CronSecret, configErr, logger.Component("http"))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.ListenAddr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		mainLogger.WithField("signal", sig.String()).Info("Shutting down application...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	mainLogger.Info("Application shut down gracefully.")
	return nil
}
