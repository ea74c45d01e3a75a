package deal

import (
	"fmt"

	"github.com/google/uuid"
)

// Assignment says who is responsible for a deal. The zero value is
// Unassigned; an assigned deal always carries the user to alert.
type Assignment struct {
	userID      uuid.UUID
	assigned    bool
	fromCreator bool
}

// Unassigned is the assignment of a deal nobody owns yet.
func Unassigned() Assignment {
	return Assignment{}
}

// AssignedTo assigns the deal to the given rep.
func AssignedTo(repID uuid.UUID) Assignment {
	return Assignment{userID: repID, assigned: true}
}

// AssignedToCreator is used for deals marked assigned without a rep;
// the creator is alerted in the rep's place.
func AssignedToCreator(creatorID uuid.UUID) Assignment {
	return Assignment{userID: creatorID, assigned: true, fromCreator: true}
}

// NewAssignment builds an Assignment from the two loosely coupled columns
// stored in the database.
func NewAssignment(status AssignmentStatus, repID *uuid.UUID, createdBy uuid.UUID) (Assignment, error) {
	switch status {
	case StatusNotAssigned:
		return Unassigned(), nil
	case StatusAssigned:
		if repID == nil || *repID == uuid.Nil {
			return AssignedToCreator(createdBy), nil
		}
		return AssignedTo(*repID), nil
	default:
		return Assignment{}, fmt.Errorf("unknown assignment status %q", status)
	}
}

// IsAssigned reports whether somebody is responsible for the deal.
func (a Assignment) IsAssigned() bool { return a.assigned }

// RecipientID is the user to alert. ok is false for unassigned deals.
func (a Assignment) RecipientID() (id uuid.UUID, ok bool) {
	return a.userID, a.assigned
}

// RepID is the explicitly assigned rep, if any. Deals that fall back to
// their creator have no rep.
func (a Assignment) RepID() (id uuid.UUID, ok bool) {
	if !a.assigned || a.fromCreator {
		return uuid.Nil, false
	}
	return a.userID, true
}

// Status returns the stored form of the assignment.
func (a Assignment) Status() AssignmentStatus {
	if a.assigned {
		return StatusAssigned
	}
	return StatusNotAssigned
}
