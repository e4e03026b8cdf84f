// File: mailer/resend.go
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"

	"church-site/logger"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a ResendSender with the given API key and default from address.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send queues a single email with Resend.
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := req.From
	if from == "" {
		from = s.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
	}
	if req.ReplyTo != "" {
		params.ReplyTo = req.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		logger.Error.Printf("[ResendSender.Send] to=%v subject=%q: %v", req.To, req.Subject, err)
		return SendResult{}, fmt.Errorf("resend send failed: %w", err)
	}

	logger.Info.Printf("[ResendSender.Send] Sent id=%s to=%v", sent.Id, req.To)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}
