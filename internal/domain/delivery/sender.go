package delivery

import "context"

// Message is a single outbound alert.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string // Plain-text rendering for channels without HTML
}

// Sender delivers messages to an external service.
// This keeps the alert logic free of any particular delivery API.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts an ordinary function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
