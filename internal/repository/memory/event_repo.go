package memory

import (
	"context"
	"sort"

	"rsvptracker/internal/domain"
)

type eventRepo struct {
	st     *state
	locked bool
}

func (r *eventRepo) Create(ctx context.Context, e *domain.Event) error {
	defer guard(r.st, r.locked)()

	r.st.nextEventID++
	e.ID = r.st.nextEventID
	r.st.events[e.ID] = copyEvent(*e)
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	defer guard(r.st, r.locked)()

	e, ok := r.st.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyEvent(e)
	return &out, nil
}

func (r *eventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	defer guard(r.st, r.locked)()

	out := make([]*domain.Event, 0, len(r.st.events))
	for _, e := range r.st.events {
		c := copyEvent(e)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes the event and cascades to its RSVPs.
func (r *eventRepo) Delete(ctx context.Context, id int64) error {
	defer guard(r.st, r.locked)()

	if _, ok := r.st.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.events, id)
	for rid, rsvp := range r.st.rsvps {
		if rsvp.EventID == id {
			delete(r.st.rsvps, rid)
		}
	}
	return nil
}

func copyEvent(e domain.Event) domain.Event {
	guests := make([]string, len(e.GuestEmails))
	copy(guests, e.GuestEmails)
	e.GuestEmails = guests
	e.StartTime = copyString(e.StartTime)
	e.EndTime = copyString(e.EndTime)
	e.Description = copyString(e.Description)
	e.Location = copyString(e.Location)
	e.RSVPCounts = domain.RSVPCounts{}
	return e
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
