package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rsvptracker/internal/domain"
	"rsvptracker/internal/validation"
)

type eventService struct {
	store          domain.Store
	emailService   domain.EmailService
	tasks          domain.TaskRunner
	calendar       domain.CalendarEncoder
	links          domain.LinkBuilder
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService wires the event operations. Notifications are handed to tasks and never awaited.
func NewEventService(
	store domain.Store,
	emailService domain.EmailService,
	tasks domain.TaskRunner,
	calendar domain.CalendarEncoder,
	links domain.LinkBuilder,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		store:          store,
		emailService:   emailService,
		tasks:          tasks,
		calendar:       calendar,
		links:          links,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := normalizeEvent(event); err != nil {
		return err
	}

	// TIMESTAMPTZ stores microseconds.
	now := time.Now().UTC().Truncate(time.Microsecond)
	event.CreatedAt = now
	event.UpdatedAt = now

	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		return tx.Events().Create(ctx, event)
	})
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	event.RSVPCounts = domain.RSVPCounts{}

	s.notifyCreated(event)
	return nil
}

// normalizeEvent trims fields, lower-cases addresses and drops duplicate guests,
// then checks what a persisted event must carry.
func normalizeEvent(event *domain.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	event.Date = strings.TrimSpace(event.Date)
	event.OrganizerEmail = domain.NormalizeEmail(event.OrganizerEmail)

	var problems []string
	if event.Title == "" {
		problems = append(problems, "title is required")
	}
	if event.Date == "" {
		problems = append(problems, "date is required")
	}
	if !validation.Email(event.OrganizerEmail) {
		problems = append(problems, "organizer_email must be a valid email address")
	}

	guests := make([]string, 0, len(event.GuestEmails))
	seen := make(map[string]struct{}, len(event.GuestEmails))
	for i, g := range event.GuestEmails {
		g = domain.NormalizeEmail(g)
		if !validation.Email(g) {
			problems = append(problems, fmt.Sprintf("guest_emails[%d] must be a valid email address", i))
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		guests = append(guests, g)
	}
	event.GuestEmails = guests

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func (s *eventService) notifyCreated(event *domain.Event) {
	rsvpLink := s.links.RSVP(event.ID)

	created := &domain.EventCreatedEmailData{
		Email:        event.OrganizerEmail,
		Title:        event.Title,
		Date:         event.Date,
		RSVPLink:     rsvpLink,
		CalendarLink: s.links.Calendar(event.ID),
	}
	s.tasks.Submit(fmt.Sprintf("event_created:%d", event.ID), func(ctx context.Context) error {
		return s.emailService.SendEventCreated(ctx, created)
	})

	for _, guest := range event.GuestEmails {
		invitation := &domain.EventInvitationEmailData{
			Email:          guest,
			Title:          event.Title,
			Date:           event.Date,
			TimeWindow:     event.TimeWindow(),
			Location:       event.LocationOrNA(),
			Description:    event.DescriptionOrNA(),
			OrganizerEmail: event.OrganizerEmail,
			RSVPLink:       rsvpLink,
		}
		s.tasks.Submit(fmt.Sprintf("event_invitation:%d", event.ID), func(ctx context.Context) error {
			return s.emailService.SendEventInvitation(ctx, invitation)
		})
	}
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var event *domain.Event
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		event, err = withCounts(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func withCounts(ctx context.Context, tx domain.Store, id int64) (*domain.Event, error) {
	event, err := tx.Events().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rsvps, err := tx.RSVPs().ListByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	event.RSVPCounts = domain.TallyRSVPs(rsvps)
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var events []*domain.Event
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		list, err := tx.Events().List(ctx)
		if err != nil {
			return err
		}
		for _, e := range list {
			rsvps, err := tx.RSVPs().ListByEventID(ctx, e.ID)
			if err != nil {
				return fmt.Errorf("list rsvps for event %d: %w", e.ID, err)
			}
			e.RSVPCounts = domain.TallyRSVPs(rsvps)
		}
		events = list
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		return tx.Events().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.InfoContext(ctx, "event deleted", "event_id", id)
	return nil
}

func (s *eventService) CalendarFile(ctx context.Context, id int64) ([]byte, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := s.calendar.Encode(event)
	if err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return raw, nil
}
