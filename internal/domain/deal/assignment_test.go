package deal_test

import (
	"testing"
	"time"

	"deal_deadline_notifier/internal/domain/deal"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignment(t *testing.T) {
	rep := uuid.New()
	creator := uuid.New()

	tests := []struct {
		name          string
		status        deal.AssignmentStatus
		repID         *uuid.UUID
		wantAssigned  bool
		wantRecipient uuid.UUID
		wantRep       bool
	}{
		{"not assigned", deal.StatusNotAssigned, nil, false, uuid.Nil, false},
		{"not assigned ignores rep", deal.StatusNotAssigned, &rep, false, uuid.Nil, false},
		{"assigned to rep", deal.StatusAssigned, &rep, true, rep, true},
		{"assigned without rep", deal.StatusAssigned, nil, true, creator, false},
		{"assigned with nil uuid", deal.StatusAssigned, &uuid.Nil, true, creator, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := deal.NewAssignment(tt.status, tt.repID, creator)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAssigned, a.IsAssigned())
			assert.Equal(t, tt.status, a.Status())

			id, ok := a.RecipientID()
			assert.Equal(t, tt.wantAssigned, ok)
			if ok {
				assert.Equal(t, tt.wantRecipient, id)
			}

			_, hasRep := a.RepID()
			assert.Equal(t, tt.wantRep, hasRep)
		})
	}
}

func TestNewAssignment_UnknownStatus(t *testing.T) {
	_, err := deal.NewAssignment("Pending", nil, uuid.New())
	assert.Error(t, err)
}

func TestAssignment_ZeroValueIsUnassigned(t *testing.T) {
	var a deal.Assignment
	assert.False(t, a.IsAssigned())
	assert.Equal(t, deal.StatusNotAssigned, a.Status())
}

func TestDeal_EndOfDeadlineDay(t *testing.T) {
	d := &deal.Deal{DDDeadline: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)}
	loc := time.FixedZone("EST", -5*3600)

	end := d.EndOfDeadlineDay(loc)
	assert.Equal(t, time.Date(2025, 3, 9, 23, 59, 59, 0, loc), end)
	assert.Equal(t, "2025-03-09", d.DeadlineDate())
}
