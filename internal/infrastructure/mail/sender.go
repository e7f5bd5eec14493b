package mail

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers one HTML email to a set of recipients.
type Sender interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

// SMTPSender sends mail through an SMTP relay with gomail.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	logger   *zap.Logger
}

func NewSMTPSender(cfg config.EmailConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, s.fromName))
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug("Email sent",
		zap.Strings("to", to),
		zap.String("subject", subject))
	return nil
}
