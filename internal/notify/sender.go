package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type Sender interface {
	Send(ctx context.Context, e Email) error
}

// SMTPSender delivers through a plain SMTP relay (no auth), e.g. a local
// MTA or mailhog in development.
type SMTPSender struct {
	Addr string
	From string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host, port, from string) *SMTPSender {
	return &SMTPSender{
		Addr: host + ":" + port,
		From: from,
		send: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(e.To) == "" {
		return fmt.Errorf("notify: empty recipient")
	}
	return s.send(s.Addr, nil, s.From, []string{e.To}, buildMessage(s.From, e))
}

func buildMessage(from string, e Email) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + e.To + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(e.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(e.Text, "\n", "\r\n"))
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// LogSender only logs; used when no mail transport is configured.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(_ context.Context, e Email) error {
	s.Log.Info("email",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
	)
	return nil
}
