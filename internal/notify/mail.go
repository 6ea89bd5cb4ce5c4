package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

// MailConfig holds SMTP transport settings.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Enabled reports whether enough settings are present to send mail.
func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && len(c.To) > 0
}

// Mailer sends lead notifications over SMTP.
type Mailer struct {
	cfg    MailConfig
	logger *zap.Logger
}

// NewMailer validates cfg and returns a Mailer.
func NewMailer(cfg MailConfig, logger *zap.Logger) (*Mailer, error) {
	if !cfg.Enabled() {
		return nil, errors.New("mail notifier requires host, sender and at least one recipient")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, logger: logger}, nil
}

func (m *Mailer) Notify(ctx context.Context, lead chat.LeadRecord) error {
	msg, err := buildMessage(m.cfg.From, m.cfg.To, lead)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Warn("lead notification failed", zap.String("lead", lead.ID), zap.Error(err))
		return fmt.Errorf("send lead notification: %w", err)
	}

	m.logger.Info("lead notification sent", zap.String("lead", lead.ID), zap.Strings("to", m.cfg.To))
	return nil
}

func buildMessage(from string, to []string, lead chat.LeadRecord) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(subject(lead))
	msg.SetBodyString(mail.TypeTextPlain, body(lead))
	return msg, nil
}

func subject(lead chat.LeadRecord) string {
	return "New lead: " + lead.Email
}

func body(lead chat.LeadRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "Captured: %s\n\n", lead.Timestamp.Format("2006-01-02 15:04:05 MST"))
	b.WriteString("Conversation:\n")
	b.WriteString(lead.Conversation)
	b.WriteString("\n")
	return b.String()
}
