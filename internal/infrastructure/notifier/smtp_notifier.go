package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"

	"shelter-registry/config"
	"shelter-registry/internal/usecase"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// sender is the part of gomail.Dialer the notifier needs
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier mails reports through an authenticated SMTP relay with STARTTLS
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	dialer sender
	log    *logrus.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, log *logrus.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		log:    log,
	}
}

// Configured reports whether credentials are present
func (n *SMTPNotifier) Configured() bool {
	return n.cfg.User != "" && n.cfg.Password != ""
}

func (n *SMTPNotifier) Send(ctx context.Context, recipients []string, subject, body string, attachment usecase.Attachment) error {
	if !n.Configured() {
		return usecase.ErrNotifierNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := n.cfg.From
	if from == "" {
		from = n.cfg.User
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if len(attachment.Content) > 0 {
		content := attachment.Content
		m.Attach(attachment.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail via %s:%d: %w", n.cfg.Host, n.cfg.Port, err)
	}

	n.log.Debugf("Mailed %q to %s", subject, strings.Join(recipients, ", "))
	return nil
}
