package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deal_deadline_notifier/internal/domain/alert"
	"deal_deadline_notifier/internal/domain/delivery"

	"github.com/spf13/cobra"
)

var errSendingDisabled = errors.New("sending is disabled in dry-run mode")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the DD deadline alerts once",
	Long: `Run the DD deadline alert job once and print what happened.
With --dry-run the alerts are computed and printed without sending anything.`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("dry-run", false, "Compute the alerts and print them without sending")
	runCmd.Flags().Bool("json", false, "Print the run summary as JSON")
}

func runOnce(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if dryRun {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL", alert.ErrConfiguration)
		}
		disabled := delivery.SenderFunc(func(_ context.Context, _ delivery.Message) error {
			return errSendingDisabled
		})
		stack, err := buildAlertStack(cmd.Context(), cfg, disabled)
		if err != nil {
			return err
		}
		defer stack.Close()

		plan, err := stack.service.PlanDeadlineAlerts(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		renderPlan(out, plan)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	sender, err := buildSender(cfg)
	if err != nil {
		return err
	}
	stack, err := buildAlertStack(cmd.Context(), cfg, sender)
	if err != nil {
		return err
	}
	defer stack.Close()

	summary, err := stack.service.RunDeadlineAlerts(cmd.Context(), time.Now())
	if err != nil {
		var deliveryErr *alert.DeliveryError
		if errors.As(err, &deliveryErr) && len(deliveryErr.Sent) > 0 {
			partial := alert.NewSummary()
			partial.OK = false
			partial.Sent = deliveryErr.Sent
			partial.EmailsSent = len(deliveryErr.Sent)
			renderSummary(out, partial)
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	renderSummary(out, summary)
	return nil
}
