package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Sender delivers the backend's transactional email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

var invitationTmpl = template.Must(template.New("invitation").Parse(
	`<p>{{.Inviter}} invited you to join <b>{{.Team}}</b> on Focusboard.</p>` +
		`<p>Accept or decline from your notifications: <a href="{{.Link}}">{{.Link}}</a></p>`,
))

// Invitation renders the team invitation email. Team names are user input
// and are escaped by the template.
func Invitation(team, inviter, link string) (subject, body string, err error) {
	var buf bytes.Buffer
	data := struct{ Team, Inviter, Link string }{team, inviter, link}
	if err := invitationTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render invitation email: %w", err)
	}
	return "You're invited to " + team, buf.String(), nil
}

// LogSender writes emails to the log. ENV=local and the in-process test
// backend use it.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "email")}
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "email not sent (local)", "to", to, "subject", subject, "body", body)
	return nil
}

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	logger *slog.Logger
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("resend: send to %s: %w", to, err)
	}
	s.logger.InfoContext(ctx, "email sent", "to", to, "resend_id", sent.Id)
	return nil
}

// NewSender picks the LogSender for ENV=local and Resend everywhere else.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return NewLogSender(logger)
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger.With("component", "email"),
	}
}
