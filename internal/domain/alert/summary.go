// internal/domain/alert/summary.go
package alert

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FailurePolicy decides what a run does when a delivery fails.
type FailurePolicy string

const (
	PolicyAbort    FailurePolicy = "abort"    // Stop the run at the first failed delivery
	PolicyContinue FailurePolicy = "continue" // Record the failure and move on to the next deal
)

// ParseFailurePolicy accepts "abort" or "continue" (case-insensitive).
// An empty value selects PolicyAbort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicyContinue:
		return PolicyContinue, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", s)
	}
}

// SentAlert is one delivered notification.
type SentAlert struct {
	DealID     uuid.UUID `json:"dealId"`
	Recipients []string  `json:"recipients"`
}

// FailedAlert is a notification whose delivery failed under PolicyContinue.
type FailedAlert struct {
	DealID     uuid.UUID `json:"dealId"`
	Recipients []string  `json:"recipients"`
	Error      string    `json:"error"`
}

// Summary is the result of a successful run.
type Summary struct {
	OK         bool          `json:"ok"`
	DealsFound int           `json:"dealsFound"`
	EmailsSent int           `json:"emailsSent"`
	Sent       []SentAlert   `json:"sent"`
	Failed     []FailedAlert `json:"failed,omitempty"`
}

// NewSummary returns an empty successful summary.
func NewSummary() *Summary {
	return &Summary{OK: true, Sent: make([]SentAlert, 0)}
}
