package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventCreatedEmailData holds data for the organizer's "event created" email.
type EventCreatedEmailData struct {
	Email        string
	Title        string
	Date         string
	RSVPLink     string
	CalendarLink string
}

// EventInvitationEmailData holds data for a guest invitation.
type EventInvitationEmailData struct {
	Email          string
	Title          string
	Date           string
	TimeWindow     string
	Location       string
	Description    string
	OrganizerEmail string
	RSVPLink       string
}

// RSVPConfirmationEmailData holds data for the email sent after a guest answers "yes".
type RSVPConfirmationEmailData struct {
	Email    string
	Title    string
	Date     string
	Location string
	RSVPLink string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendEventCreated(ctx context.Context, data *EventCreatedEmailData) error
	SendEventInvitation(ctx context.Context, data *EventInvitationEmailData) error
	SendRSVPConfirmation(ctx context.Context, data *RSVPConfirmationEmailData) error
}
