package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"deal_deadline_notifier/internal/domain/delivery"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

const defaultSendTimeout = 10 * time.Second

// ResendSender delivers alerts through the Resend email API.
type ResendSender struct {
	client *resend.Client
	logger *logrus.Entry
}

// NewResendSender creates a sender for the given API key.
func NewResendSender(apiKey string, logger *logrus.Entry) *ResendSender {
	httpClient := &http.Client{Timeout: defaultSendTimeout}
	return &ResendSender{
		client: resend.NewCustomClient(httpClient, apiKey),
		logger: logger,
	}
}

// WithBaseURL points the sender at another API endpoint.
func (s *ResendSender) WithBaseURL(rawURL string) (*ResendSender, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	s.client.BaseURL = u
	return s, nil
}

func (s *ResendSender) Send(ctx context.Context, msg delivery.Message) error {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend failed: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"email_id":   sent.Id,
		"recipients": len(msg.To),
	}).Debug("Email accepted by Resend")
	return nil
}
