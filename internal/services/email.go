package services

import (
	"context"
	"fmt"
	"log/slog"

	"rsvptracker/internal/adapters/email"
	"rsvptracker/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendEventCreated tells the organizer the event exists and gives them the link to share.
func (s *emailService) SendEventCreated(ctx context.Context, data *domain.EventCreatedEmailData) error {
	if data == nil {
		return fmt.Errorf("event created email data is nil")
	}
	return s.send(ctx, email.TemplateEventCreated, data.Email, data)
}

// SendEventInvitation invites a single guest.
func (s *emailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation email data is nil")
	}
	return s.send(ctx, email.TemplateEventInvitation, data.Email, data)
}

// SendRSVPConfirmation confirms a "yes" to the guest.
func (s *emailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp confirmation email data is nil")
	}
	return s.send(ctx, email.TemplateRSVPConfirmation, data.Email, data)
}

func (s *emailService) send(ctx context.Context, templateName, to string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	s.logger.DebugContext(ctx, "email sent", "template", templateName, "to", to)
	return nil
}
