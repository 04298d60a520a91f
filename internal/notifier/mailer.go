// Package notifier renders change events into HTML email and delivers them
// over authenticated SMTP.
package notifier

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"tpowatch/internal/config"
	"tpowatch/internal/models"
)

// Outcome describes what happened to a notification attempt.
type Outcome string

// Notification outcomes. Skipped means credentials were absent or delivery
// is disabled; it is intentional and never an error.
const (
	OutcomeSent    Outcome = "sent"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Mailer delivers notifications through an SMTP relay over SSL.
type Mailer struct {
	cfg   config.MailConfig
	creds config.Credentials

	// send is swapped out in tests.
	send func(ctx context.Context, msg *mail.Msg) error
}

// NewMailer creates a mailer for the given relay and account.
func NewMailer(cfg config.MailConfig, creds config.Credentials) *Mailer {
	m := &Mailer{cfg: cfg, creds: creds}
	m.send = m.smtpSend

	return m
}

// SendArticle delivers the new-article notification.
func (m *Mailer) SendArticle(ctx context.Context, obs models.ArticleObservation) (Outcome, error) {
	body, err := RenderArticleBody(obs)
	if err != nil {
		return OutcomeFailed, err
	}

	return m.deliver(ctx, ArticleSubject(obs), body)
}

// SendVacancies delivers the vacancy-increase notification.
func (m *Mailer) SendVacancies(ctx context.Context, events []models.VacancyChangeEvent) (Outcome, error) {
	body, err := RenderVacancyBody(events)
	if err != nil {
		return OutcomeFailed, err
	}

	return m.deliver(ctx, VacancySubject(events), body)
}

func (m *Mailer) deliver(ctx context.Context, subject, body string) (Outcome, error) {
	if !m.cfg.Enabled || !m.creds.Complete() {
		return OutcomeSkipped, nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.creds.Sender); err != nil {
		return OutcomeFailed, fmt.Errorf("invalid sender address: %w", err)
	}

	if err := msg.To(m.creds.Recipient); err != nil {
		return OutcomeFailed, fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.send(ctx, msg); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to send notification: %w", err)
	}

	return OutcomeSent, nil
}

func (m *Mailer) smtpSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(m.cfg.SMTPHost,
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.creds.Sender),
		mail.WithPassword(m.creds.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}
