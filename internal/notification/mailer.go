package notification

import (
	"context"
	"strings"

	"go-leave/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns an SMTP mailer, or a logging one when no SMTP host is set.
// The logging mailer never writes bodies: approval mails carry live tokens.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if logger == nil {
		logger = zap.L()
	}
	if strings.TrimSpace(cfg.Host) == "" {
		logger.Warn("smtp host not configured, emails will only be logged")
		return &logMailer{logger: logger.Named("notification.mailer")}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}
	return m.dialer.DialAndSend(gm)
}

type logMailer struct {
	logger *zap.Logger
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Text)),
	)
	return nil
}
