package mail

import (
	"context"

	"gopkg.in/gomail.v2"

	customErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
)

// SMTPMailer renders and delivers account emails. Callers run it on a
// background goroutine; a failed send only ever reaches the logs.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	// baseURL is the public address links in emails point back at.
	baseURL string
}

func NewSMTPMailer(host string, port int, username, password, from, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		baseURL: baseURL,
	}
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to, username, token string) error {
	body, err := renderConfirmation(username, m.baseURL, token)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Confirm email", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, username, token string) error {
	body, err := renderReset(username, m.baseURL, token)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Reset password", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	// gomail has no context support; honor cancellation around the dial.
	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return customErrors.WrapInternal(ctx.Err(), "send email")
	case err := <-done:
		if err != nil {
			return customErrors.WrapInternal(err, "send email")
		}
		return nil
	}
}
