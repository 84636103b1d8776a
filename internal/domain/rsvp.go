package domain

import (
	"context"
	"strings"
	"time"
)

// Statuses the system counts and reacts to. Any other status is stored as-is but not counted.
const (
	RSVPStatusYes   = "yes"
	RSVPStatusNo    = "no"
	RSVPStatusMaybe = "maybe"
)

// RSVP is a guest's recorded response to an event. There is at most one per (event, guest).
// swagger:model RSVP
type RSVP struct {
	ID         int64     `json:"id"`
	EventID    int64     `json:"event_id"`
	GuestEmail string    `json:"guest_email"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RSVPCounts aggregates responses for the recognised statuses.
// swagger:model RSVPCounts
type RSVPCounts struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Maybe int `json:"maybe"`
}

// Total is the number of counted responses.
func (c RSVPCounts) Total() int { return c.Yes + c.No + c.Maybe }

// NormalizeStatus lower-cases and trims a status for comparison.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// NormalizeEmail trims and lower-cases an email address. RSVPs are keyed on the normalised form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TallyRSVPs counts yes/no/maybe responses case-insensitively. Unrecognised statuses are skipped.
func TallyRSVPs(rsvps []*RSVP) RSVPCounts {
	var c RSVPCounts
	for _, r := range rsvps {
		switch NormalizeStatus(r.Status) {
		case RSVPStatusYes:
			c.Yes++
		case RSVPStatusNo:
			c.No++
		case RSVPStatusMaybe:
			c.Maybe++
		}
	}
	return c
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	// Upsert inserts the RSVP or overwrites the status of the existing row for (EventID, GuestEmail).
	// It fills ID and CreatedAt and reports whether a new row was created.
	Upsert(ctx context.Context, rsvp *RSVP) (bool, error)
	GetByEventAndGuest(ctx context.Context, eventID int64, guestEmail string) (*RSVP, error)
	ListByEventID(ctx context.Context, eventID int64) ([]*RSVP, error)
}

// RSVPService defines guest-facing RSVP operations.
type RSVPService interface {
	SubmitRSVP(ctx context.Context, eventID int64, guestEmail, status string) (*RSVP, error)
	ListRSVPs(ctx context.Context, eventID int64) ([]*RSVP, error)
}

// ConfirmationRenderer writes a static HTML record of a guest's RSVP and returns its path.
type ConfirmationRenderer interface {
	Render(event *Event, guestEmail, status string) (string, error)
}
