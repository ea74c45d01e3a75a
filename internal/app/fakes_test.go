package app

import (
	"context"
	"database/sql"
	"io"
	"time"

	"deal_deadline_notifier/internal/domain/deal"
	"deal_deadline_notifier/internal/domain/delivery"
	"deal_deadline_notifier/internal/domain/user"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// fakeDealRepo returns every stored deal regardless of the requested range.
type fakeDealRepo struct {
	deals   []*deal.Deal
	err     error
	calls   int
	gotFrom time.Time
	gotTo   time.Time
}

func (f *fakeDealRepo) ListByDeadlineRange(_ context.Context, from, to time.Time) ([]*deal.Deal, error) {
	f.calls++
	f.gotFrom, f.gotTo = from, to
	if f.err != nil {
		return nil, f.err
	}
	return f.deals, nil
}

type fakeDirectory struct {
	adminIDs    []uuid.UUID
	profiles    []*user.Profile
	authEmails  map[uuid.UUID]string
	lookupErrs  map[uuid.UUID]error
	rolesErr    error
	profilesErr error

	roleCalls    int
	profileCalls int
	gotRoles     []string
	lookups      map[uuid.UUID]int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		authEmails: map[uuid.UUID]string{},
		lookupErrs: map[uuid.UUID]error{},
		lookups:    map[uuid.UUID]int{},
	}
}

func (f *fakeDirectory) ListUserIDsByRole(_ context.Context, roles []string) ([]uuid.UUID, error) {
	f.roleCalls++
	f.gotRoles = roles
	return f.adminIDs, f.rolesErr
}

func (f *fakeDirectory) ListProfiles(_ context.Context) ([]*user.Profile, error) {
	f.profileCalls++
	return f.profiles, f.profilesErr
}

func (f *fakeDirectory) LookupEmail(_ context.Context, id uuid.UUID) (string, error) {
	f.lookups[id]++
	if err := f.lookupErrs[id]; err != nil {
		return "", err
	}
	return f.authEmails[id], nil
}

// fakeSender records messages and fails the call numbered failOn (1-based).
type fakeSender struct {
	sent   []delivery.Message
	calls  int
	failOn int
	err    error
}

func (f *fakeSender) Send(_ context.Context, msg delivery.Message) error {
	f.calls++
	if f.failOn != 0 && f.calls == f.failOn {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func mustDate(s string) time.Time {
	t, err := time.Parse(deal.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newDeal(address, deadline string, a deal.Assignment) *deal.Deal {
	return &deal.Deal{
		ID:                  uuid.New(),
		Address:             address,
		DDDeadline:          mustDate(deadline),
		Assignment:          a,
		CreatedBy:           uuid.New(),
		AcqManagerFirstName: "Maria",
	}
}

func profile(id uuid.UUID, email, firstName string) *user.Profile {
	return &user.Profile{
		UserID:    id,
		Email:     email,
		FirstName: sql.NullString{String: firstName, Valid: firstName != ""},
	}
}
