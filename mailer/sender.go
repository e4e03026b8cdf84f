// Package mailer delivers outbound email through an SMTP relay or the Resend API.
// File: mailer/sender.go
package mailer

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send one email.
type SendRequest struct {
	To      []string
	From    string // falls back to the sender's default
	Subject string
	Text    string
	ReplyTo string
}

// SendResult contains the provider's response.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
