package app

import (
	"context"
	"strings"

	"deal_deadline_notifier/internal/domain/deal"
	"deal_deadline_notifier/internal/domain/user"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// emailResolver maps user ids to email addresses for the duration of one
// run. Every id is looked up at most once; misses are cached too.
type emailResolver struct {
	directory user.Directory
	cache     map[uuid.UUID]string
	lookups   int
	logger    *logrus.Entry
}

func newEmailResolver(dir user.Directory, profiles []*user.Profile, logger *logrus.Entry) *emailResolver {
	r := &emailResolver{
		directory: dir,
		cache:     make(map[uuid.UUID]string, len(profiles)),
		logger:    logger,
	}
	for _, p := range profiles {
		r.cache[p.UserID] = strings.TrimSpace(p.Email)
	}
	return r
}

// resolve returns the user's email or "" when none can be found. Lookup
// errors are logged and treated as "no email".
func (r *emailResolver) resolve(ctx context.Context, userID uuid.UUID) string {
	if email, ok := r.cache[userID]; ok {
		return email
	}

	r.lookups++
	email, err := r.directory.LookupEmail(ctx, userID)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", userID).Warn("Email lookup failed, treating user as unreachable")
		email = ""
	}
	email = strings.TrimSpace(email)
	r.cache[userID] = email
	return email
}

// adminEmails resolves the admin roster and merges it with the static
// fallback list. The result keeps first-seen order and is case-insensitively
// deduplicated.
func (r *emailResolver) adminEmails(ctx context.Context, adminIDs []uuid.UUID, fallback []string) []string {
	var emails []string
	for _, id := range adminIDs {
		if email := r.resolve(ctx, id); email != "" {
			emails = append(emails, email)
		}
	}
	return dedupeEmails(append(emails, fallback...))
}

// recipientsFor picks the recipients of one deal's alert: the responsible
// user when reachable, the admin set otherwise.
func (r *emailResolver) recipientsFor(ctx context.Context, d *deal.Deal, admins []string) []string {
	userID, ok := d.Assignment.RecipientID()
	if !ok {
		return admins
	}
	if email := r.resolve(ctx, userID); email != "" {
		return []string{email}
	}
	return admins
}

func dedupeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		key := strings.ToLower(e)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
