package mail

import (
	"clinigoal/backend/internal/config"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendGridMailer sends through the SendGrid v3 API. Without an API key it
// degrades to logging the message, so local development does not need mail
// credentials.
type sendGridMailer struct {
	apiKey    string
	fromName  string
	fromEmail string
}

// NewSendGridMailer creates a Mailer backed by SendGrid.
func NewSendGridMailer(cfg config.MailConfig) Mailer {
	if cfg.SendGridAPIKey == "" {
		log.Warn().Msg("sendgrid api key not configured, emails will be logged instead of sent")
	}
	return &sendGridMailer{
		apiKey:    cfg.SendGridAPIKey,
		fromName:  cfg.FromName,
		fromEmail: cfg.FromEmail,
	}
}

func (m *sendGridMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.apiKey == "" {
		log.Info().Str("to", to).Str("subject", subject).Msg("mail suppressed (no api key)")
		return nil
	}

	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	message := sgmail.NewSingleEmail(from, subject, sgmail.NewEmail("", to), "", htmlBody)

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Error().Err(err).Str("to", to).Msg("sendgrid send failed")
		return err
	}
	if resp.StatusCode >= 400 {
		log.Error().Int("status", resp.StatusCode).Str("to", to).Msg("sendgrid rejected message")
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}
