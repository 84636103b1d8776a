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

type rsvpService struct {
	store          domain.Store
	emailService   domain.EmailService
	tasks          domain.TaskRunner
	confirmations  domain.ConfirmationRenderer
	links          domain.LinkBuilder
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRSVPService wires guest responses. Confirmation pages are rendered inline, emails are queued.
func NewRSVPService(
	store domain.Store,
	emailService domain.EmailService,
	tasks domain.TaskRunner,
	confirmations domain.ConfirmationRenderer,
	links domain.LinkBuilder,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RSVPService {
	return &rsvpService{
		store:          store,
		emailService:   emailService,
		tasks:          tasks,
		confirmations:  confirmations,
		links:          links,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// SubmitRSVP records the guest's answer, replacing any earlier one for the same event.
func (s *rsvpService) SubmitRSVP(ctx context.Context, eventID int64, guestEmail, status string) (*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guestEmail = domain.NormalizeEmail(guestEmail)
	status = strings.TrimSpace(status)

	var problems []string
	if !validation.Email(guestEmail) {
		problems = append(problems, "guest_email must be a valid email address")
	}
	if status == "" {
		problems = append(problems, "status is required")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	rsvp := &domain.RSVP{
		EventID:    eventID,
		GuestEmail: guestEmail,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var (
		event    *domain.Event
		inserted bool
	)
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		var err error
		event, err = tx.Events().GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		inserted, err = tx.RSVPs().Upsert(ctx, rsvp)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("submit rsvp: %w", err)
	}
	s.logger.InfoContext(ctx, "rsvp recorded",
		"event_id", eventID, "guest_email", guestEmail, "status", status, "inserted", inserted)

	if path, err := s.confirmations.Render(event, guestEmail, status); err != nil {
		s.logger.WarnContext(ctx, "confirmation page not written", "event_id", eventID, "guest_email", guestEmail, "err", err)
	} else {
		s.logger.DebugContext(ctx, "confirmation page written", "path", path)
	}

	if domain.NormalizeStatus(status) == domain.RSVPStatusYes {
		data := &domain.RSVPConfirmationEmailData{
			Email:    guestEmail,
			Title:    event.Title,
			Date:     event.Date,
			Location: event.LocationOrNA(),
			RSVPLink: s.links.RSVP(eventID),
		}
		s.tasks.Submit(fmt.Sprintf("rsvp_confirmation:%d", eventID), func(ctx context.Context) error {
			return s.emailService.SendRSVPConfirmation(ctx, data)
		})
	}
	return rsvp, nil
}

func (s *rsvpService) ListRSVPs(ctx context.Context, eventID int64) ([]*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var rsvps []*domain.RSVP
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := tx.Events().GetByID(ctx, eventID); err != nil {
			return err
		}
		var err error
		rsvps, err = tx.RSVPs().ListByEventID(ctx, eventID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	return rsvps, nil
}
