package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deal_deadline_notifier/internal/app"
	"deal_deadline_notifier/internal/domain/alert"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAlertService struct {
	calls   int
	summary *alert.Summary
	err     error
}

func (s *stubAlertService) RunDeadlineAlerts(context.Context, time.Time) (*alert.Summary, error) {
	s.calls++
	return s.summary, s.err
}

func (s *stubAlertService) PlanDeadlineAlerts(context.Context, time.Time) (*app.Plan, error) {
	return &app.Plan{}, nil
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func do(s *Server, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestDDAlerts_Unauthorized(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong secret", header: "Bearer nope"},
		{name: "missing scheme", header: "secret1"},
		{name: "wrong scheme casing", header: "bearer secret1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAlertService{summary: alert.NewSummary()}
			s := NewServer(svc, "secret1", nil, testLogger())

			rec := do(s, http.MethodGet, DDAlertsPath, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			assert.Zero(t, svc.calls, "no queries may run for an unauthorized call")
		})
	}
}

func TestDDAlerts_UnauthorizedBeforeConfigurationError(t *testing.T) {
	configErr := fmt.Errorf("%w: RESEND_API_KEY", alert.ErrConfiguration)
	s := NewServer(nil, "secret1", configErr, testLogger())

	rec := do(s, http.MethodGet, DDAlertsPath, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDDAlerts_Success(t *testing.T) {
	dealID := uuid.MustParse("5f0c6f4e-7d1b-4bb2-9c55-2f1f0d7a8a11")
	summary := alert.NewSummary()
	summary.DealsFound = 2
	summary.EmailsSent = 1
	summary.Sent = []alert.SentAlert{{DealID: dealID, Recipients: []string{"a@x.com", "b@x.com"}}}

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			svc := &stubAlertService{summary: summary}
			s := NewServer(svc, "secret1", nil, testLogger())

			rec := do(s, method, DDAlertsPath, "Bearer secret1")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{
				"ok": true,
				"dealsFound": 2,
				"emailsSent": 1,
				"sent": [{"dealId": "5f0c6f4e-7d1b-4bb2-9c55-2f1f0d7a8a11", "recipients": ["a@x.com", "b@x.com"]}]
			}`, rec.Body.String())
			assert.Equal(t, 1, svc.calls)
		})
	}
}

func TestDDAlerts_OpenWhenNoSecretConfigured(t *testing.T) {
	svc := &stubAlertService{summary: alert.NewSummary()}
	s := NewServer(svc, "", nil, testLogger())

	rec := do(s, http.MethodGet, DDAlertsPath, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"dealsFound":0,"emailsSent":0,"sent":[]}`, rec.Body.String())
}

func TestDDAlerts_ConfigurationError(t *testing.T) {
	configErr := fmt.Errorf("%w: DATABASE_URL, RESEND_API_KEY", alert.ErrConfiguration)
	s := NewServer(nil, "secret1", configErr, testLogger())

	rec := do(s, http.MethodGet, DDAlertsPath, "Bearer secret1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"missing required configuration: DATABASE_URL, RESEND_API_KEY"}`, rec.Body.String())
}

func TestDDAlerts_RunErrors(t *testing.T) {
	dealID := uuid.MustParse("0b8f5c3e-1f0a-4c59-9f0e-6a3c2b1d4e5f")
	sentID := uuid.MustParse("9d2e7a41-3c5b-4f8e-a1d0-7b6c5e4f3a21")

	tests := []struct {
		name     string
		err      error
		wantBody string
	}{
		{
			name:     "query failure",
			err:      &alert.QueryError{Query: alert.QueryAdminRoles, Err: errors.New("permission denied")},
			wantBody: `{"error":"failed to query admin roles: permission denied"}`,
		},
		{
			name: "delivery failure keeps earlier sends",
			err: &alert.DeliveryError{
				DealID: dealID,
				Sent:   []alert.SentAlert{{DealID: sentID, Recipients: []string{"a@x.com"}}},
				Err:    errors.New("resend failed: rate limited"),
			},
			wantBody: `{
				"error": "delivery failed for deal 0b8f5c3e-1f0a-4c59-9f0e-6a3c2b1d4e5f: resend failed: rate limited",
				"sent": [{"dealId": "9d2e7a41-3c5b-4f8e-a1d0-7b6c5e4f3a21", "recipients": ["a@x.com"]}]
			}`,
		},
		{
			name:     "unexpected failure",
			err:      errors.New("context deadline exceeded"),
			wantBody: `{"error":"context deadline exceeded"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&stubAlertService{err: tt.err}, "", nil, testLogger())

			rec := do(s, http.MethodPost, DDAlertsPath, "")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestDDAlerts_UnauthorizedLogsRejection(t *testing.T) {
	l, hook := test.NewNullLogger()
	svc := &stubAlertService{summary: alert.NewSummary()}
	s := NewServer(svc, "secret1", nil, logrus.NewEntry(l))

	rec := do(s, http.MethodPost, DDAlertsPath, "Bearer wrong")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	assert.Zero(t, svc.calls)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "Rejected DD alert trigger with bad credentials" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestHealthz(t *testing.T) {
	s := NewServer(nil, "secret1", nil, testLogger())

	rec := do(s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDDAlerts_MethodNotAllowed(t *testing.T) {
	svc := &stubAlertService{summary: alert.NewSummary()}
	s := NewServer(svc, "", nil, testLogger())

	rec := do(s, http.MethodDelete, DDAlertsPath, "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, svc.calls)
}
