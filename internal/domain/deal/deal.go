// internal/domain/deal/deal.go
package deal

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO calendar date format used for DD deadlines.
const DateLayout = "2006-01-02"

// AssignmentStatus mirrors the assignment_status column of the deals table.
type AssignmentStatus string

const (
	StatusNotAssigned AssignmentStatus = "Not Assigned"
	StatusAssigned    AssignmentStatus = "Assigned"
)

// Deal is the alert-relevant projection of a row in the 'deals' table.
type Deal struct {
	ID                  uuid.UUID
	Address             string
	DDDeadline          time.Time // Calendar date only; time-of-day is ignored
	Assignment          Assignment
	CreatedBy           uuid.UUID
	AcqManagerFirstName string
}

// DeadlineDate returns the deadline as an ISO date string.
func (d *Deal) DeadlineDate() string {
	return d.DDDeadline.Format(DateLayout)
}

// EndOfDeadlineDay is the last second of the deadline day in loc.
func (d *Deal) EndOfDeadlineDay(loc *time.Location) time.Time {
	y, m, day := d.DDDeadline.Date()
	return time.Date(y, m, day, 23, 59, 59, 0, loc)
}
