// File: mailer/smtp.go
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"church-site/logger"
)

// SMTPSender relays mail through an SMTP server, upgrading with STARTTLS
// when the server offers it.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender creates an SMTPSender. An empty username skips AUTH.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

// Send delivers req in one SMTP transaction bounded by ctx.
func (s *SMTPSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := req.From
	if from == "" {
		from = s.from
	}
	if len(req.To) == 0 {
		return SendResult{}, fmt.Errorf("smtp send: no recipients")
	}

	msgID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host)
	msg := buildMessage(from, msgID, time.Now(), req)

	if err := s.deliver(ctx, from, req.To, msg); err != nil {
		logger.Error.Printf("[SMTPSender.Send] to=%v subject=%q: %v", req.To, req.Subject, err)
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	logger.Info.Printf("[SMTPSender.Send] Sent %s to=%v", msgID, req.To)
	return SendResult{MessageID: msgID, SentAt: time.Now()}, nil
}

func (s *SMTPSender) deliver(ctx context.Context, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("greeting: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing body: %w", err)
	}
	return c.Quit()
}

// buildMessage renders a plain-text RFC 5322 message with CRLF line endings.
func buildMessage(from, msgID string, date time.Time, req SendRequest) []byte {
	var b bytes.Buffer
	header := func(k, v string) {
		b.WriteString(k + ": " + v + "\r\n")
	}

	header("From", from)
	header("To", strings.Join(req.To, ", "))
	if req.ReplyTo != "" {
		header("Reply-To", req.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", req.Subject))
	header("Date", date.Format(time.RFC1123Z))
	header("Message-ID", msgID)
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="utf-8"`)
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(req.Text, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.Bytes()
}
