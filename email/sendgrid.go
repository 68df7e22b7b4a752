package email

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/vapeguard/insurance-api/config"
)

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client   *sendgrid.Client
	from     *mail.Email
	fallback bool // console-log the body on provider failure (non-production)
}

func NewSendGridSender(cfg *config.Config) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:     mail.NewEmail(cfg.EmailFromName, cfg.EmailFrom),
		fallback: !cfg.IsProduction(),
	}
}

func (s *SendGridSender) Send(toName, toEmail, subject, textContent, htmlContent string) error {
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(s.from, subject, to, textContent, htmlContent)

	response, err := s.client.Send(message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	if err != nil {
		if s.fallback {
			log.Printf("SendGrid failed (%v); email for %s: %q", err, toEmail, textContent)
			return nil
		}
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}

	log.Printf("Email sent to %s. Status Code: %d", toEmail, response.StatusCode)
	return nil
}
