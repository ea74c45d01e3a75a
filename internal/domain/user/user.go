package user

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Profile is a row of the 'user_profiles' table.
type Profile struct {
	UserID    uuid.UUID
	Email     string
	FirstName sql.NullString // Optional display name
}

// DisplayName returns the first name, or fallback when none is stored.
func (p *Profile) DisplayName(fallback string) string {
	if p == nil || !p.FirstName.Valid || p.FirstName.String == "" {
		return fallback
	}
	return p.FirstName.String
}

// Directory resolves users known to the auth backend.
type Directory interface {
	// ListUserIDsByRole returns the users holding any of the given roles.
	ListUserIDsByRole(ctx context.Context, roles []string) ([]uuid.UUID, error)
	// ListProfiles returns every stored user profile.
	ListProfiles(ctx context.Context) ([]*Profile, error)
	// LookupEmail resolves a single user to an email address. An unknown
	// user yields "" and a nil error.
	LookupEmail(ctx context.Context, userID uuid.UUID) (string, error)
}
