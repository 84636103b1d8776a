package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"rsvptracker/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const testTimeout = 5 * time.Second

// recordingTasks keeps submitted tasks so tests decide when (and whether) they run.
type recordingTasks struct {
	mu    sync.Mutex
	names []string
	fns   []func(ctx context.Context) error
}

func (r *recordingTasks) Submit(name string, fn func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.fns = append(r.fns, fn)
}

func (r *recordingTasks) runAll() []error {
	r.mu.Lock()
	fns := append([]func(ctx context.Context) error(nil), r.fns...)
	r.mu.Unlock()

	var errs []error
	for _, fn := range fns {
		if err := fn(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// fakeEmailService records every email it is asked to send.
type fakeEmailService struct {
	mu            sync.Mutex
	created       []*domain.EventCreatedEmailData
	invitations   []*domain.EventInvitationEmailData
	confirmations []*domain.RSVPConfirmationEmailData
	err           error
}

func (f *fakeEmailService) SendEventCreated(ctx context.Context, data *domain.EventCreatedEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, data)
	return f.err
}

func (f *fakeEmailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invitations = append(f.invitations, data)
	return f.err
}

func (f *fakeEmailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, data)
	return f.err
}

type renderCall struct {
	eventID int64
	guest   string
	status  string
}

type fakeConfirmations struct {
	calls []renderCall
	err   error
}

func (f *fakeConfirmations) Render(event *domain.Event, guestEmail, status string) (string, error) {
	f.calls = append(f.calls, renderCall{eventID: event.ID, guest: guestEmail, status: status})
	if f.err != nil {
		return "", f.err
	}
	return "confirmations/page.html", nil
}

type fakeCalendar struct {
	got *domain.Event
	err error
}

func (f *fakeCalendar) Encode(event *domain.Event) ([]byte, error) {
	f.got = event
	if f.err != nil {
		return nil, f.err
	}
	return []byte("BEGIN:VCALENDAR"), nil
}

var errStorage = errors.New("connection reset")

// brokenStore fails every transaction, the way a lost database connection would.
type brokenStore struct{}

func (brokenStore) Events() domain.EventRepository { return nil }
func (brokenStore) RSVPs() domain.RSVPRepository   { return nil }
func (brokenStore) WithinTx(ctx context.Context, fn func(tx domain.Store) error) error {
	return errStorage
}
