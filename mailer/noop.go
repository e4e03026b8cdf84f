// File: mailer/noop.go
package mailer

import (
	"context"
	"fmt"
	"time"

	"church-site/logger"
)

// NoopSender logs sends but does not deliver anything.
type NoopSender struct{}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the email and reports success.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	logger.Info.Printf("[NoopSender.Send] to=%v subject=%q", req.To, req.Subject)
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
