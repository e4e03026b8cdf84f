// File: services/notifier.go
package services

import (
	"context"
	"fmt"

	"church-site/logger"
	"church-site/mailer"
)

// Notifier sends the acknowledgement email that follows a contact submission.
type Notifier struct {
	sender     mailer.Sender
	from       string
	churchName string
}

// NewNotifier sends through sender as from, signing mail with churchName.
func NewNotifier(sender mailer.Sender, from, churchName string) *Notifier {
	return &Notifier{sender: sender, from: from, churchName: churchName}
}

// AcknowledgementSubject is the subject line of every acknowledgement.
func (n *Notifier) AcknowledgementSubject() string {
	return "Thank you for contacting " + n.churchName
}

// Acknowledge thanks name for their message. A delivery failure is returned to
// the caller, which decides whether it matters.
func (n *Notifier) Acknowledge(ctx context.Context, name, email string) error {
	body := fmt.Sprintf("Dear %s,\n\n"+
		"Thank you for reaching out. We've received your message and will respond soon.\n\n"+
		"Blessings,\n%s", name, n.churchName)

	res, err := n.sender.Send(ctx, mailer.SendRequest{
		To:      []string{email},
		From:    n.from,
		Subject: n.AcknowledgementSubject(),
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("acknowledging %s: %w", email, err)
	}

	logger.Info.Printf("[Notifier.Acknowledge] Acknowledgement %s sent to %s", res.MessageID, email)
	return nil
}
