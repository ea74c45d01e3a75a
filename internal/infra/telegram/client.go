// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"deal_deadline_notifier/internal/domain/delivery"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// maxMessageLength is the Telegram limit for a single text message.
const maxMessageLength = 4096

// MirrorSender posts every alert as plain text to a team chat.
// It implements delivery.Sender using the gopkg.in/telebot.v3 library.
type MirrorSender struct {
	bot    *telebot.Bot
	chat   *telebot.Chat
	logger *logrus.Entry
}

// NewMirrorSender creates an offline bot (no getMe call, no polling) used
// only for outgoing messages. apiURL may be empty for the public Bot API.
func NewMirrorSender(token string, chatID int64, apiURL string, logger *logrus.Entry) (*MirrorSender, error) {
	b, err := telebot.NewBot(telebot.Settings{
		Token:   token,
		URL:     apiURL,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create telegram bot: %w", err)
	}
	return &MirrorSender{
		bot:    b,
		chat:   &telebot.Chat{ID: chatID},
		logger: logger,
	}, nil
}

func (s *MirrorSender) Send(ctx context.Context, msg delivery.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := mirrorText(msg)
	sent, err := s.bot.Send(s.chat, text, &telebot.SendOptions{DisableWebPagePreview: true})
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"chat_id":    s.chat.ID,
		"message_id": sent.ID,
	}).Debug("Alert mirrored to Telegram")
	return nil
}

func mirrorText(msg delivery.Message) string {
	text := msg.Subject
	if body := strings.TrimSpace(msg.Text); body != "" {
		text += "\n\n" + body
	}
	if len(text) > maxMessageLength {
		cut := maxMessageLength - len("...")
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
