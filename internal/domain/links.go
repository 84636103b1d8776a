package domain

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is used for links when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// LinkBuilder builds the public links sent to organizers and guests.
type LinkBuilder struct {
	baseURL string
}

// NewLinkBuilder returns a LinkBuilder rooted at baseURL (trailing slashes removed).
func NewLinkBuilder(baseURL string) LinkBuilder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return LinkBuilder{baseURL: baseURL}
}

// RSVP returns {base_url}/rsvp/{event_id}.
func (l LinkBuilder) RSVP(eventID int64) string {
	return fmt.Sprintf("%s/rsvp/%d", l.baseURL, eventID)
}

// Calendar returns the .ics download link for the event.
func (l LinkBuilder) Calendar(eventID int64) string {
	return fmt.Sprintf("%s/events/%d/calendar.ics", l.baseURL, eventID)
}

// Host returns the host part of the base URL, used for calendar UIDs.
func (l LinkBuilder) Host() string {
	h := l.baseURL
	if i := strings.Index(h, "://"); i >= 0 {
		h = h[i+3:]
	}
	if i := strings.IndexByte(h, '/'); i >= 0 {
		h = h[:i]
	}
	return h
}
