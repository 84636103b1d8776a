package memory

import (
	"context"
	"sort"

	"rsvptracker/internal/domain"
)

type rsvpRepo struct {
	st     *state
	locked bool
}

// Upsert looks up the (event, guest) row and overwrites its status, or inserts a new row.
// Writes for an unknown event fail with ErrNotFound like a foreign key would.
func (r *rsvpRepo) Upsert(ctx context.Context, rsvp *domain.RSVP) (bool, error) {
	defer guard(r.st, r.locked)()

	if _, ok := r.st.events[rsvp.EventID]; !ok {
		return false, domain.ErrNotFound
	}
	for id, existing := range r.st.rsvps {
		if existing.EventID == rsvp.EventID && existing.GuestEmail == rsvp.GuestEmail {
			existing.Status = rsvp.Status
			existing.UpdatedAt = rsvp.UpdatedAt
			r.st.rsvps[id] = existing
			rsvp.ID = existing.ID
			rsvp.CreatedAt = existing.CreatedAt
			return false, nil
		}
	}
	r.st.nextRSVPID++
	rsvp.ID = r.st.nextRSVPID
	r.st.rsvps[rsvp.ID] = *rsvp
	return true, nil
}

func (r *rsvpRepo) GetByEventAndGuest(ctx context.Context, eventID int64, guestEmail string) (*domain.RSVP, error) {
	defer guard(r.st, r.locked)()

	for _, existing := range r.st.rsvps {
		if existing.EventID == eventID && existing.GuestEmail == guestEmail {
			out := existing
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *rsvpRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.RSVP, error) {
	defer guard(r.st, r.locked)()

	out := make([]*domain.RSVP, 0)
	for _, existing := range r.st.rsvps {
		if existing.EventID == eventID {
			c := existing
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
