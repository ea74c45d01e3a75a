package mailer

import (
	"context"
	"fmt"

	"deal_deadline_notifier/internal/domain/delivery"

	"github.com/sirupsen/logrus"
)

// NamedSender is a delivery channel with a name for error reporting.
type NamedSender struct {
	Name   string
	Sender delivery.Sender
}

// MultiSender delivers through a primary channel and then copies the message
// to the mirror channels. Only the primary channel decides whether a message
// was delivered; mirror failures are logged.
type MultiSender struct {
	primary NamedSender
	mirrors []NamedSender
	logger  *logrus.Entry
}

func NewMultiSender(primary NamedSender, logger *logrus.Entry, mirrors ...NamedSender) *MultiSender {
	return &MultiSender{primary: primary, mirrors: mirrors, logger: logger}
}

func (m *MultiSender) Send(ctx context.Context, msg delivery.Message) error {
	if err := m.primary.Sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("%s: %w", m.primary.Name, err)
	}

	for _, ch := range m.mirrors {
		if err := ch.Sender.Send(ctx, msg); err != nil {
			m.logger.WithError(err).WithFields(logrus.Fields{
				"channel": ch.Name,
				"subject": msg.Subject,
			}).Warn("Mirror delivery failed, alert was delivered by the primary channel")
		}
	}
	return nil
}
