package email

import (
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"

	"github.com/vapeguard/insurance-api/config"
)

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client   *resend.Client
	from     string
	fallback bool
}

func NewResendSender(cfg *config.Config) *ResendSender {
	return &ResendSender{
		client:   resend.NewClient(cfg.ResendAPIKey),
		from:     fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		fallback: !cfg.IsProduction(),
	}
}

func (s *ResendSender) Send(toName, toEmail, subject, textContent, htmlContent string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: subject,
		Text:    textContent,
		Html:    htmlContent,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		if s.fallback {
			log.Printf("Resend failed (%v); email for %s: %q", err, toEmail, textContent)
			return nil
		}
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}

	log.Printf("Email sent to %s. Resend id: %s", toEmail, sent.Id)
	return nil
}
