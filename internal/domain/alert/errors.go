package alert

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("unauthorized")
var ErrConfiguration = errors.New("missing required configuration")

// Names of the store queries a run performs.
const (
	QueryDeals      = "deals"
	QueryAdminRoles = "admin roles"
	QueryProfiles   = "user profiles"
)

// QueryError reports a failed read from the record store.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("failed to query %s: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// DeliveryError reports a failed send that aborted the run. Sent holds the
// alerts already delivered earlier in the same run; they are not undone.
type DeliveryError struct {
	DealID uuid.UUID
	Sent   []SentAlert
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed for deal %s: %v", e.DealID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
