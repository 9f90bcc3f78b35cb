package mailer

import (
	"context"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type SMTPDispatcher struct {
	client *mail.Client
	logger *zap.Logger
}

func NewSMTPDispatcher(cfg SMTPConfig, logger ...*zap.Logger) (*SMTPDispatcher, error) {
	l := zap.L().Named("mailer.smtp")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mailer.smtp")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPDispatcher{client: client, logger: l}, nil
}

func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(msg.Sender); err != nil {
		return err
	}
	if err := m.To(msg.Recipients...); err != nil {
		return err
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	if err := d.client.DialAndSendWithContext(ctx, m); err != nil {
		d.logger.Error("smtp send failed",
			zap.Int("recipients", len(msg.Recipients)),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return err
	}

	d.logger.Debug("mail dispatched",
		zap.Int("recipients", len(msg.Recipients)),
		zap.String("subject", msg.Subject),
	)
	return nil
}
