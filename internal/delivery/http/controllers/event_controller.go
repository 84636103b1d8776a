package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"rsvptracker/internal/delivery/http/helpers"
	"rsvptracker/internal/domain"
	"rsvptracker/internal/validation"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title          string   `json:"title" validate:"required"`
	Date           string   `json:"date" validate:"required"`
	StartTime      *string  `json:"start_time"`
	EndTime        *string  `json:"end_time"`
	AllDay         *bool    `json:"all_day" validate:"required"`
	Description    *string  `json:"description"`
	Location       *string  `json:"location"`
	OrganizerEmail string   `json:"organizer_email" validate:"required,email"`
	GuestEmails    []string `json:"guest_emails" validate:"dive,email"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	return validation.Struct(c)
}

func (c CreateEventRequest) toEvent() *domain.Event {
	guests := c.GuestEmails
	if guests == nil {
		guests = []string{}
	}
	return &domain.Event{
		Title:          c.Title,
		Date:           c.Date,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		AllDay:         *c.AllDay,
		Description:    c.Description,
		Location:       c.Location,
		OrganizerEmail: c.OrganizerEmail,
		GuestEmails:    guests,
	}
}

// EventSuccessResponse is the success envelope for single-event responses.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success envelope for GET /events.
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event and emails the organizer and every guest an RSVP link. Emails are sent in the background.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the created event with zero rsvp_counts"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toEvent()
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event, newest first, each with its rsvp_counts.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns the event with yes/no/maybe counts computed from its RSVPs.
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and all of its RSVPs.
// @Tags events
// @Param eventID path int true "Event ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCalendar godoc
// @Summary Download an event as iCalendar
// @Tags events
// @Produce text/calendar
// @Param eventID path int true "Event ID"
// @Success 200 {string} string "VCALENDAR document"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/calendar.ics [get]
func (c *EventController) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	raw, err := c.Service.CalendarFile(r.Context(), id)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="event-%d.ics"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
