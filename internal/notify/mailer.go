// Package notify sends transactional email. Delivery is always best-effort:
// callers never let a send failure fail the primary write.
package notify

import (
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
	"proofdeck-backend/internal/models"
)

// Mailer is the outbound notification port. Implementations must be safe to
// call with partially configured settings.
type Mailer interface {
	SendProofLink(to string, order *models.Order, settings *models.AppSettings, proofLink string, expiryDays int) error
	SendDecisionNotice(order *models.Order, settings *models.AppSettings, decision, note, adminLink string) error
	SendReminder(to string, order *models.Order, settings *models.AppSettings) error
}

// ResendMailer delivers through the Resend API.
type ResendMailer struct {
	client *resend.Client
}

func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

func fromAddress(settings *models.AppSettings) string {
	name := settings.EmailFromName
	if name == "" {
		name = "Proofs"
	}
	email := settings.EmailFromEmail
	if email == "" {
		email = "proofs@example.com"
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

func customerGreeting(order *models.Order) string {
	if order.CustomerName.Valid && order.CustomerName.String != "" {
		return order.CustomerName.String
	}
	return "there"
}

func (m *ResendMailer) SendProofLink(to string, order *models.Order, settings *models.AppSettings, proofLink string, expiryDays int) error {
	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Your proof is ready for review!</h2>
			<p>Hi %s,</p>
			<p>Your proof for order #%s is ready for your review.</p>
			<p style="margin: 24px 0;">
				<a href="%s" style="background: %s; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; display: inline-block;">
					Review Your Proof
				</a>
			</p>
			<p>If the button doesn't work, copy and paste this link:<br><a href="%s">%s</a></p>
			<p style="color: #666; font-size: 12px; margin-top: 24px;">This link will expire in %d days.</p>
			<p>Thank you,<br>%s</p>
		</div>`,
		customerGreeting(order), order.OrderNumber, proofLink, settings.AccentColor,
		proofLink, proofLink, expiryDays, settings.CompanyName)

	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    fromAddress(settings),
		To:      []string{to},
		Subject: fmt.Sprintf("Your proof is ready - Order #%s", order.OrderNumber),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send proof link email: %w", err)
	}
	return nil
}

func (m *ResendMailer) SendDecisionNotice(order *models.Order, settings *models.AppSettings, decision, note, adminLink string) error {
	if !settings.StaffNotifyEmail.Valid || settings.StaffNotifyEmail.String == "" {
		return nil
	}

	decisionText := "Approved"
	if decision == models.StatusChangesRequested {
		decisionText = "Changes Requested"
	}

	var noteHTML string
	if strings.TrimSpace(note) != "" {
		noteHTML = fmt.Sprintf("<p><strong>Customer note:</strong> %s</p>", note)
	}

	html := fmt.Sprintf(`
		<h2>%s</h2>
		<p>Order #%s has been %s.</p>
		%s
		<p><a href="%s">View Order</a></p>`,
		decisionText, order.OrderNumber, strings.ReplaceAll(decision, "_", " "), noteHTML, adminLink)

	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    fromAddress(settings),
		To:      []string{settings.StaffNotifyEmail.String},
		Subject: fmt.Sprintf("%s - Order #%s", decisionText, order.OrderNumber),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send decision notice: %w", err)
	}
	return nil
}

func (m *ResendMailer) SendReminder(to string, order *models.Order, settings *models.AppSettings) error {
	// The raw token cannot be recovered from its hash, so reminders point the
	// customer back at their original email instead of carrying a link.
	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Reminder: Your proof is ready for review</h2>
			<p>Hi %s,</p>
			<p>We're still waiting for your approval on order #%s.</p>
			<p>Please check your original email for the proof review link, or contact us if you need a new link.</p>
			<p>Thank you,<br>%s</p>
		</div>`,
		customerGreeting(order), order.OrderNumber, settings.CompanyName)

	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    fromAddress(settings),
		To:      []string{to},
		Subject: fmt.Sprintf("Reminder: Your proof is waiting - Order #%s", order.OrderNumber),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// NoopMailer is used when RESEND_API_KEY is absent; email silently becomes a
// no-op rather than disabling the flows that would have sent it.
type NoopMailer struct{}

func (NoopMailer) SendProofLink(string, *models.Order, *models.AppSettings, string, int) error {
	return nil
}

func (NoopMailer) SendDecisionNotice(*models.Order, *models.AppSettings, string, string, string) error {
	return nil
}

func (NoopMailer) SendReminder(string, *models.Order, *models.AppSettings) error {
	return nil
}
