// Package email delivers transactional mail through whichever provider is
// configured. The provider is picked once at startup; callers only see the
// Sender interface.
package email

import (
	"fmt"
	"log"

	"github.com/vapeguard/insurance-api/config"
)

// Sender delivers one email.
type Sender interface {
	Send(toName, toEmail, subject, textContent, htmlContent string) error
}

// NewSender selects a provider: Resend when configured, then SendGrid, then a
// console sender outside production. Production with no provider is a startup
// error rather than a silent code leak.
func NewSender(cfg *config.Config) (Sender, error) {
	switch {
	case cfg.ResendAPIKey != "":
		log.Println("Email provider: Resend")
		return NewResendSender(cfg), nil
	case cfg.SendGridAPIKey != "":
		log.Println("Email provider: SendGrid")
		return NewSendGridSender(cfg), nil
	case !cfg.IsProduction():
		log.Println("Email provider: console (development only)")
		return ConsoleSender{}, nil
	default:
		return nil, fmt.Errorf("no email provider configured: set RESEND_API_KEY or SENDGRID_API_KEY")
	}
}

// ConsoleSender logs the email instead of sending it. Development only.
type ConsoleSender struct{}

func (ConsoleSender) Send(toName, toEmail, subject, textContent, _ string) error {
	log.Printf("[EMAIL] to=%s <%s> subject=%q body=%q", toName, toEmail, subject, textContent)
	return nil
}

// OTPEmail renders the subject and bodies for an OTP message.
func OTPEmail(code string, minutes int) (subject, text, html string) {
	subject = "Your VapeGuard verification code"
	text = fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, minutes)
	html = fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>", code, minutes)
	return subject, text, html
}
