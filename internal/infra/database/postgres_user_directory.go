package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"deal_deadline_notifier/internal/domain/user"

	"github.com/google/uuid"
	"github.com/lib/pq" // For pq.Array
)

// PostgresUserDirectory reads roles and profiles from the public schema and
// falls back to the auth schema for single-user email lookups.
type PostgresUserDirectory struct {
	db *sql.DB
}

func NewPostgresUserDirectory(db *sql.DB) *PostgresUserDirectory {
	return &PostgresUserDirectory{db: db}
}

func (r *PostgresUserDirectory) ListUserIDsByRole(ctx context.Context, roles []string) ([]uuid.UUID, error) {
	if len(roles) == 0 {
		return []uuid.UUID{}, nil
	}

	query := `SELECT DISTINCT user_id FROM user_roles WHERE role = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(roles))
	if err != nil {
		return nil, fmt.Errorf("error querying user roles: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning user role row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user role rows: %w", err)
	}
	return ids, nil
}

func (r *PostgresUserDirectory) ListProfiles(ctx context.Context) ([]*user.Profile, error) {
	query := `SELECT user_id, email, first_name FROM user_profiles`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying user profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*user.Profile, 0)
	for rows.Next() {
		p := &user.Profile{}
		var email sql.NullString
		if err := rows.Scan(&p.UserID, &email, &p.FirstName); err != nil {
			return nil, fmt.Errorf("error scanning user profile row: %w", err)
		}
		p.Email = email.String
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user profile rows: %w", err)
	}
	return profiles, nil
}

func (r *PostgresUserDirectory) LookupEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	query := `SELECT email FROM auth.users WHERE id = $1`
	var email sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error looking up email for user %s: %w", userID, err)
	}
	return email.String, nil
}
