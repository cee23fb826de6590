package mail

import (
	"context"
	"fmt"
	"log"
	"time"

	"blotter-backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer is the outbound-email capability. Delivery is best-effort: callers
// persist their own state first and treat a send failure as a warning.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer returns nil when SMTP is not configured; callers must treat a
// nil Mailer as "email disabled".
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	// gomail has no context support; bound the dial+send with the caller's deadline.
	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendAsync fires a best-effort send with a short timeout. Failures are logged,
// never propagated.
func SendAsync(m Mailer, to, subject, htmlBody string) {
	if m == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Send(ctx, to, subject, htmlBody); err != nil {
			log.Printf("[WARN] email to %s not sent: %v", to, err)
		}
	}()
}

func VerificationEmail(code, username string) (subject, body string) {
	subject = "BMS Account Verification Code"
	body = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Email Verification</h2>
  <p>Hello <strong>%s</strong>,</p>
  <p>Use the verification code below to complete your registration:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 5px;">%s</p>
  <p>This code will expire in <strong>10 minutes</strong>.</p>
  <p>If you did not request this code, please ignore this email.</p>
</div>`, username, code)
	return subject, body
}

func PasswordResetEmail(code, username string) (subject, body string) {
	subject = "BMS Password Reset Request"
	body = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset</h2>
  <p>Hello <strong>%s</strong>,</p>
  <p>Use the code below to reset your password:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 5px;">%s</p>
  <p>This code will expire in <strong>1 hour</strong>.</p>
</div>`, username, code)
	return subject, body
}

func OfficerCredentialsEmail(fullName, username, password string) (subject, body string) {
	subject = "BMS Officer Account Credentials"
	body = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Your Officer Account</h2>
  <p>Hello <strong>%s</strong>,</p>
  <p>An account has been created for you on the Blotter Management System.</p>
  <p>Username: <strong>%s</strong><br>Password: <strong>%s</strong></p>
  <p>Please change your password after first login.</p>
</div>`, fullName, username, password)
	return subject, body
}
