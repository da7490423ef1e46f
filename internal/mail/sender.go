package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Dialer is the subset of *gomail.Dialer the sender needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// ReviewEmail is the data rendered into a review outcome message.
type ReviewEmail struct {
	To                string
	Name              string
	Approved          bool
	LoginID           string
	TemporaryPassword string
}

var reviewTemplate = template.Must(template.New("review").Parse(`<p>Hello {{.Name}},</p>
{{if .Approved}}<p>Your channel partner application has been approved.</p>
<p>Sign in with <b>{{.LoginID}}</b>{{if .TemporaryPassword}} and the temporary password <b>{{.TemporaryPassword}}</b>{{else}} and the password provided by your administrator{{end}}, then complete your account setup by choosing a new password and a 4-digit PIN.</p>
{{else}}<p>We are sorry, your channel partner application was not approved.</p>
{{end}}`))

// EmailSender delivers review outcome emails over SMTP.
type EmailSender struct {
	dialer Dialer
	from   string
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func newEmailSenderWithDialer(d Dialer, from string) *EmailSender {
	return &EmailSender{dialer: d, from: from}
}

func renderReview(e ReviewEmail) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := reviewTemplate.Execute(&buf, e); err != nil {
		return "", "", fmt.Errorf("failed to render review email: %w", err)
	}

	subject = "Your channel partner application was not approved"
	if e.Approved {
		subject = "Your channel partner application is approved"
	}
	return subject, buf.String(), nil
}

func (s *EmailSender) SendReviewOutcome(_ context.Context, e ReviewEmail) error {
	subject, body, err := renderReview(e)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send review email: %w", err)
	}
	return nil
}

// NoopSender is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendReviewOutcome(_ context.Context, e ReviewEmail) error {
	slog.Debug("smtp disabled, review email skipped", "to", e.To, "approved", e.Approved)
	return nil
}
