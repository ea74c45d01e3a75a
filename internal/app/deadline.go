package app

import (
	"math"
	"time"

	"deal_deadline_notifier/internal/domain/deal"
)

// calendarDay truncates t to midnight UTC of its UTC calendar date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// lookaheadWindow returns [today, today+days] as UTC calendar dates.
func lookaheadWindow(now time.Time, days int) (from, to time.Time) {
	from = calendarDay(now)
	return from, from.AddDate(0, 0, days)
}

// inWindow compares by calendar date only. The deadline's date is read in
// its own zone, as DeadlineDate does.
func inWindow(d *deal.Deal, from, to time.Time) bool {
	y, m, dd := d.DDDeadline.Date()
	day := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	return !day.Before(from) && !day.After(to)
}

// hoursLeft rounds the time between now and the end of the deadline day
// to whole hours. Passed deadlines report 0.
func hoursLeft(d *deal.Deal, now time.Time, loc *time.Location) int {
	h := math.Round(d.EndOfDeadlineDay(loc).Sub(now).Hours())
	if h < 0 {
		return 0
	}
	return int(h)
}
