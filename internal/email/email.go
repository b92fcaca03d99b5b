package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Kind selects the template used for a code delivery.
type Kind string

const (
	KindVerificationCode Kind = "verification_code"
	KindRecoveryCode     Kind = "recovery_code"
)

type Sender interface {
	SendCode(ctx context.Context, to string, kind Kind, code string) error
}

// LogSender logs codes instead of sending them. Used in ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) SendCode(_ context.Context, to string, kind Kind, code string) error {
	s.logger.Info("verification email (local dev)", "to", to, "kind", string(kind), "code", code)
	return nil
}

// ResendSender sends codes via the Resend API. Used in staging/production.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) SendCode(ctx context.Context, to string, kind Kind, code string) error {
	subject, body := render(kind, code)
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	return nil
}

func render(kind Kind, code string) (subject, body string) {
	switch kind {
	case KindRecoveryCode:
		subject = "Tu código de recuperación"
		body = fmt.Sprintf(
			`<p>Usá este código para recuperar tu contraseña (vence en 10 minutos):</p><h2>%s</h2>`,
			code,
		)
	default:
		subject = "Tu código de verificación"
		body = fmt.Sprintf(
			`<p>Usá este código para confirmar tu registro (vence en 10 minutos):</p><h2>%s</h2>`,
			code,
		)
	}
	return subject, body
}

// NewSender returns a LogSender for ENV=local, ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}
