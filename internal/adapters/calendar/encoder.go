// Package calendar exports events as iCalendar documents.
package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"rsvptracker/internal/domain"
)

const (
	productID  = "-//rsvptracker//EN"
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type encoder struct {
	links domain.LinkBuilder
	now   func() time.Time
}

// NewEncoder returns a CalendarEncoder whose UIDs and URLs are derived from links.
func NewEncoder(links domain.LinkBuilder) domain.CalendarEncoder {
	return &encoder{links: links, now: time.Now}
}

// Encode renders a VCALENDAR with a single VEVENT. Events without a start time are
// exported as all-day events.
func (e *encoder) Encode(event *domain.Event) ([]byte, error) {
	day, err := time.Parse(dateLayout, event.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.uid(event.ID))
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, e.now().UTC())
	link := ical.NewProp(ical.PropURL)
	link.Value = e.links.RSVP(event.ID)
	ve.Props.Set(link)

	if event.AllDay || event.StartTime == nil || *event.StartTime == "" {
		ve.Props.SetDate(ical.PropDateTimeStart, day)
		ve.Props.SetDate(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
	} else {
		start, err := atTime(day, *event.StartTime)
		if err != nil {
			return nil, err
		}
		ve.Props.SetDateTime(ical.PropDateTimeStart, start)
		if event.EndTime != nil && *event.EndTime != "" {
			end, err := atTime(day, *event.EndTime)
			if err != nil {
				return nil, err
			}
			if end.Before(start) {
				end = end.AddDate(0, 0, 1)
			}
			ve.Props.SetDateTime(ical.PropDateTimeEnd, end)
		}
	}

	if event.Description != nil && *event.Description != "" {
		ve.Props.SetText(ical.PropDescription, *event.Description)
	}
	if event.Location != nil && *event.Location != "" {
		ve.Props.SetText(ical.PropLocation, *event.Location)
	}
	if event.OrganizerEmail != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.SetText("mailto:" + event.OrganizerEmail)
		ve.Props.Add(p)
	}
	for _, guest := range event.GuestEmails {
		p := ical.NewProp(ical.PropAttendee)
		p.Params.Set(ical.ParamRole, "REQ-PARTICIPANT")
		p.SetText("mailto:" + guest)
		ve.Props.Add(p)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropMethod, "PUBLISH")
	cal.Children = append(cal.Children, ve)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// uid is stable per event so re-downloading updates the same calendar entry.
func (e *encoder) uid(eventID int64) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(e.links.RSVP(eventID)))
	return fmt.Sprintf("%s@%s", id, e.links.Host())
}

func atTime(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time must be HH:MM", domain.ErrInvalidInput)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}
