package main

import (
	"fmt"
	"io"
	"strings"

	"deal_deadline_notifier/internal/app"
	"deal_deadline_notifier/internal/domain/alert"

	"github.com/jedib0t/go-pretty/v6/table"
)

func renderPlan(w io.Writer, plan *app.Plan) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Deal", "Address", "DD Deadline", "Hours Left", "Recipients"})
	for _, a := range plan.Alerts {
		t.AppendRow(table.Row{a.Deal.ID.String(), a.Deal.Address, a.Deal.DeadlineDate(), a.HoursLeft, strings.Join(a.Recipients, ", ")})
	}
	t.Render()

	fmt.Fprintf(w, "Deals found: %d, alerts planned: %d, skipped without recipients: %d\n",
		plan.DealsFound, len(plan.Alerts), len(plan.Skipped))
}

func renderSummary(w io.Writer, summary *alert.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Deal", "Status", "Recipients", "Error"})
	for _, s := range summary.Sent {
		t.AppendRow(table.Row{s.DealID.String(), "sent", strings.Join(s.Recipients, ", "), ""})
	}
	for _, f := range summary.Failed {
		t.AppendRow(table.Row{f.DealID.String(), "failed", strings.Join(f.Recipients, ", "), f.Error})
	}
	t.Render()

	fmt.Fprintf(w, "Deals found: %d, emails sent: %d, failed: %d\n",
		summary.DealsFound, summary.EmailsSent, len(summary.Failed))
}
