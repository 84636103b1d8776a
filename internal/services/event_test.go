package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvptracker/internal/domain"
	"rsvptracker/internal/repository/memory"
)

func strPtr(s string) *string { return &s }

type eventFixture struct {
	svc      domain.EventService
	store    *memory.Store
	email    *fakeEmailService
	tasks    *recordingTasks
	calendar *fakeCalendar
}

func newEventFixture() *eventFixture {
	f := &eventFixture{
		store:    memory.NewStore(),
		email:    &fakeEmailService{},
		tasks:    &recordingTasks{},
		calendar: &fakeCalendar{},
	}
	f.svc = NewEventService(f.store, f.email, f.tasks, f.calendar,
		domain.NewLinkBuilder("https://rsvp.example.com"), testLogger, testTimeout)
	return f
}

func launchEvent() *domain.Event {
	return &domain.Event{
		Title:          "Launch",
		Date:           "2024-06-01",
		AllDay:         true,
		OrganizerEmail: "o@x.com",
		GuestEmails:    []string{"g@x.com"},
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	event := launchEvent()
	require.NoError(t, f.svc.CreateEvent(ctx, event))

	assert.Equal(t, int64(1), event.ID)
	assert.Equal(t, domain.RSVPCounts{}, event.RSVPCounts)
	assert.False(t, event.CreatedAt.IsZero())
	assert.Equal(t, event.CreatedAt, event.UpdatedAt)
	assert.Equal(t, event.CreatedAt.Truncate(time.Microsecond), event.CreatedAt)

	// Notifications are queued, not sent inline.
	assert.Empty(t, f.email.created)
	assert.Len(t, f.tasks.fns, 2)

	require.Empty(t, f.tasks.runAll())
	require.Len(t, f.email.created, 1)
	assert.Equal(t, "o@x.com", f.email.created[0].Email)
	assert.Equal(t, "https://rsvp.example.com/rsvp/1", f.email.created[0].RSVPLink)
	assert.Equal(t, "https://rsvp.example.com/events/1/calendar.ics", f.email.created[0].CalendarLink)

	require.Len(t, f.email.invitations, 1)
	inv := f.email.invitations[0]
	assert.Equal(t, "g@x.com", inv.Email)
	assert.Equal(t, "All day", inv.TimeWindow)
	assert.Equal(t, "N/A", inv.Location)
	assert.Equal(t, "N/A", inv.Description)
	assert.Equal(t, "https://rsvp.example.com/rsvp/1", inv.RSVPLink)

	got, err := f.svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Title, got.Title)
	assert.Equal(t, event.Date, got.Date)
	assert.Equal(t, event.GuestEmails, got.GuestEmails)
	assert.Equal(t, event.CreatedAt, got.CreatedAt)
	assert.Equal(t, event.UpdatedAt, got.UpdatedAt)
}

func TestEventService_CreateEvent_NormalizesGuests(t *testing.T) {
	f := newEventFixture()

	event := launchEvent()
	event.OrganizerEmail = "  O@X.com "
	event.GuestEmails = []string{"G@x.com", "g@x.com ", "h@x.com"}
	require.NoError(t, f.svc.CreateEvent(context.Background(), event))

	assert.Equal(t, "o@x.com", event.OrganizerEmail)
	assert.Equal(t, []string{"g@x.com", "h@x.com"}, event.GuestEmails)
	assert.Len(t, f.tasks.fns, 3)
}

func TestEventService_CreateEvent_NoGuests(t *testing.T) {
	f := newEventFixture()

	event := launchEvent()
	event.GuestEmails = nil
	require.NoError(t, f.svc.CreateEvent(context.Background(), event))

	assert.NotNil(t, event.GuestEmails)
	assert.Len(t, f.tasks.fns, 1)
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *domain.Event)
		wantMsg string
	}{
		{"missing title", func(e *domain.Event) { e.Title = "  " }, "title is required"},
		{"missing date", func(e *domain.Event) { e.Date = "" }, "date is required"},
		{"bad organizer", func(e *domain.Event) { e.OrganizerEmail = "nope" }, "organizer_email"},
		{"bad guest", func(e *domain.Event) { e.GuestEmails = []string{"g@x.com", "bad"} }, "guest_emails[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEventFixture()
			event := launchEvent()
			tt.mutate(event)

			err := f.svc.CreateEvent(context.Background(), event)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Empty(t, f.tasks.fns)

			list, err := f.svc.ListEvents(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestEventService_CreateEvent_StorageFailure(t *testing.T) {
	tasks := &recordingTasks{}
	svc := NewEventService(brokenStore{}, &fakeEmailService{}, tasks, &fakeCalendar{},
		domain.NewLinkBuilder(""), testLogger, testTimeout)

	err := svc.CreateEvent(context.Background(), launchEvent())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStorage))
	assert.Empty(t, tasks.fns)
}

func TestEventService_EmailFailureIsNotSurfaced(t *testing.T) {
	f := newEventFixture()
	f.email.err = domain.ErrMailerNotConfigured

	require.NoError(t, f.svc.CreateEvent(context.Background(), launchEvent()))
	errs := f.tasks.runAll()
	assert.Len(t, errs, 2)
}

func TestEventService_GetEvent(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	event := launchEvent()
	require.NoError(t, f.svc.CreateEvent(ctx, event))

	for i, r := range []struct{ guest, status string }{
		{"a@x.com", "YES"},
		{"b@x.com", "no"},
		{"c@x.com", "Maybe"},
		{"d@x.com", "perhaps"},
		{"e@x.com", "yes"},
	} {
		_, err := f.store.RSVPs().Upsert(ctx, &domain.RSVP{EventID: event.ID, GuestEmail: r.guest, Status: r.status})
		require.NoError(t, err, "rsvp %d", i)
	}

	got, err := f.svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RSVPCounts{Yes: 2, No: 1, Maybe: 1}, got.RSVPCounts)
	assert.Equal(t, 4, got.RSVPCounts.Total())
}

func TestEventService_GetEvent_NotFound(t *testing.T) {
	f := newEventFixture()

	got, err := f.svc.GetEvent(context.Background(), 9999)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEventService_ListEvents(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	list, err := f.svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	first := launchEvent()
	require.NoError(t, f.svc.CreateEvent(ctx, first))
	second := launchEvent()
	second.Title = "Afterparty"
	require.NoError(t, f.svc.CreateEvent(ctx, second))
	_, err = f.store.RSVPs().Upsert(ctx, &domain.RSVP{EventID: first.ID, GuestEmail: "g@x.com", Status: "yes"})
	require.NoError(t, err)

	list, err = f.svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	byID := map[int64]*domain.Event{list[0].ID: list[0], list[1].ID: list[1]}
	assert.Equal(t, 1, byID[first.ID].RSVPCounts.Yes)
	assert.Equal(t, 0, byID[second.ID].RSVPCounts.Yes)
}

func TestEventService_DeleteEvent(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	event := launchEvent()
	require.NoError(t, f.svc.CreateEvent(ctx, event))
	_, err := f.store.RSVPs().Upsert(ctx, &domain.RSVP{EventID: event.ID, GuestEmail: "g@x.com", Status: "yes"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEvent(ctx, event.ID))

	_, err = f.svc.GetEvent(ctx, event.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	rsvps, err := f.store.RSVPs().ListByEventID(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, rsvps)

	err = f.svc.DeleteEvent(ctx, event.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEventService_CalendarFile(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	event := launchEvent()
	event.Location = strPtr("HQ")
	require.NoError(t, f.svc.CreateEvent(ctx, event))

	raw, err := f.svc.CalendarFile(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR", string(raw))
	require.NotNil(t, f.calendar.got)
	assert.Equal(t, "HQ", *f.calendar.got.Location)

	_, err = f.svc.CalendarFile(ctx, 42)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	f.calendar.err = domain.ErrInvalidInput
	_, err = f.svc.CalendarFile(ctx, event.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
