package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/logger"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// send wraps the SendGrid client. Transport errors and 4xx/5xx responses
// map to UPSTREAM_UNAVAILABLE so callers can queue a retry.
func (s *sendGridEmailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return domain.NewError(domain.KindUpstreamUnavailable, fmt.Sprintf("failed to send email: %v", err))
	}
	if response.StatusCode >= 400 {
		err := domain.NewError(domain.KindUpstreamUnavailable,
			fmt.Sprintf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body))
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}

func (s *sendGridEmailService) SendInspectionScheduledNotification(ctx context.Context, email, name string, inspectionID int32, scheduledAt time.Time) error {
	subject := "Inspection Scheduled"
	plainText := fmt.Sprintf("Hi %s, inspection %d is scheduled for %s.",
		name, inspectionID, scheduledAt.Format(time.RFC1123))
	htmlContent := fmt.Sprintf("<p>Hi %s,</p><p>Inspection <strong>%d</strong> is scheduled for %s.</p>",
		name, inspectionID, scheduledAt.Format(time.RFC1123))
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendWorkflowStepNotification(ctx context.Context, email, name, step, message string) error {
	plainText := fmt.Sprintf("Hi %s, %s", name, message)
	htmlContent := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", name, message)
	return s.send(ctx, email, name, step, plainText, htmlContent)
}

func (s *sendGridEmailService) SendDisputeRaisedNotification(ctx context.Context, email, name string, disputeID int32, reason string) error {
	subject := "A Dispute Was Opened"
	plainText := fmt.Sprintf("Hi %s, dispute %d was opened: %s", name, disputeID, reason)
	htmlContent := fmt.Sprintf("<p>Hi %s,</p><p>Dispute <strong>%d</strong> was opened:</p><p>%s</p>",
		name, disputeID, reason)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendDisputeResolvedNotification(ctx context.Context, email, name string, disputeID int32, resolutionNotes string) error {
	subject := "Your Dispute Was Settled"
	plainText := fmt.Sprintf("Hi %s, dispute %d was settled. %s", name, disputeID, resolutionNotes)
	htmlContent := fmt.Sprintf("<p>Hi %s,</p><p>Dispute <strong>%d</strong> was settled.</p><p>%s</p>",
		name, disputeID, resolutionNotes)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendInspectionReminder(ctx context.Context, email, name string, inspectionID int32, scheduledAt time.Time) error {
	subject := "Inspection Reminder"
	plainText := fmt.Sprintf("Hi %s, reminder: inspection %d is scheduled for %s.",
		name, inspectionID, scheduledAt.Format(time.RFC1123))
	htmlContent := fmt.Sprintf("<p>Hi %s,</p><p>Reminder: inspection <strong>%d</strong> is scheduled for %s.</p>",
		name, inspectionID, scheduledAt.Format(time.RFC1123))
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}
