package domain

import (
	"context"
	"time"
)

// Event is an organizer-created occasion with its schedule and guest list.
// swagger:model Event
type Event struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Date           string     `json:"date"`
	StartTime      *string    `json:"start_time"`
	EndTime        *string    `json:"end_time"`
	AllDay         bool       `json:"all_day"`
	Description    *string    `json:"description"`
	Location       *string    `json:"location"`
	OrganizerEmail string     `json:"organizer_email"`
	GuestEmails    []string   `json:"guest_emails"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	RSVPCounts     RSVPCounts `json:"rsvp_counts"`
}

// TimeWindow returns "All day" for all-day events, otherwise "start - end" with N/A for missing ends.
func (e *Event) TimeWindow() string {
	if e.AllDay {
		return "All day"
	}
	return orNA(e.StartTime) + " - " + orNA(e.EndTime)
}

// LocationOrNA returns the location, or "N/A" when unset.
func (e *Event) LocationOrNA() string { return orNA(e.Location) }

// DescriptionOrNA returns the description, or "N/A" when unset.
func (e *Event) DescriptionOrNA() string { return orNA(e.Description) }

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Delete(ctx context.Context, id int64) error
}

// EventService defines organizer-facing event operations.
type EventService interface {
	// CreateEvent validates and persists the event, then schedules the organizer and guest notifications.
	CreateEvent(ctx context.Context, event *Event) error
	// GetEvent returns the event with its RSVP counts filled in.
	GetEvent(ctx context.Context, id int64) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	// CalendarFile returns an iCalendar document describing the event.
	CalendarFile(ctx context.Context, id int64) ([]byte, error)
}

// CalendarEncoder turns an event into an iCalendar document.
type CalendarEncoder interface {
	Encode(event *Event) ([]byte, error)
}
