package deal

import (
	"context"
	"time"
)

// Repository defines the read operations the alert run needs on deals.
type Repository interface {
	// ListByDeadlineRange returns deals whose DD deadline date lies in
	// [from, to], both inclusive and compared by calendar date.
	ListByDeadlineRange(ctx context.Context, from, to time.Time) ([]*Deal, error)
}
