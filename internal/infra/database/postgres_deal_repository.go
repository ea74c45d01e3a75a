package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"deal_deadline_notifier/internal/domain/deal"

	"github.com/google/uuid"
)

type PostgresDealRepository struct {
	db *sql.DB
}

func NewPostgresDealRepository(db *sql.DB) *PostgresDealRepository {
	return &PostgresDealRepository{db: db}
}

// ListByDeadlineRange compares dd_deadline (a DATE column) against ISO
// date strings, so the bounds are calendar dates regardless of zone.
func (r *PostgresDealRepository) ListByDeadlineRange(ctx context.Context, from, to time.Time) ([]*deal.Deal, error) {
	query := `SELECT id, address, dd_deadline, assignment_status, assigned_rep_user_id, created_by, acq_manager_first_name
               FROM deals
               WHERE dd_deadline >= $1 AND dd_deadline <= $2
               ORDER BY dd_deadline, address`

	rows, err := r.db.QueryContext(ctx, query, from.Format(deal.DateLayout), to.Format(deal.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("error querying deals by deadline range: %w", err)
	}
	defer rows.Close()

	deals := make([]*deal.Deal, 0)
	for rows.Next() {
		var (
			d       deal.Deal
			status  string
			repID   uuid.NullUUID
			acqName sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Address, &d.DDDeadline, &status, &repID, &d.CreatedBy, &acqName); err != nil {
			return nil, fmt.Errorf("error scanning deal row: %w", err)
		}

		var rep *uuid.UUID
		if repID.Valid {
			rep = &repID.UUID
		}
		d.Assignment, err = deal.NewAssignment(deal.AssignmentStatus(status), rep, d.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("deal %s: %w", d.ID, err)
		}
		d.AcqManagerFirstName = acqName.String

		deals = append(deals, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deal rows: %w", err)
	}
	return deals, nil
}
