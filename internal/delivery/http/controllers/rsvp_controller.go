package controllers

import (
	"log/slog"
	"net/http"

	"rsvptracker/internal/delivery/http/helpers"
	"rsvptracker/internal/domain"
	"rsvptracker/internal/validation"
)

// RSVPRecordedMessage acknowledges a stored RSVP.
const RSVPRecordedMessage = "RSVP recorded"

// SubmitRSVPRequest is the request body for POST /events/{eventID}/rsvp.
type SubmitRSVPRequest struct {
	GuestEmail string `json:"guest_email" validate:"required,email"`
	Status     string `json:"status" validate:"required"`
}

// Validate implements Validator.
func (s SubmitRSVPRequest) Validate() []string {
	return validation.Struct(s)
}

// SubmitRSVPResponse acknowledges the RSVP and echoes the stored row.
type SubmitRSVPResponse struct {
	Message string       `json:"message"`
	RSVP    *domain.RSVP `json:"rsvp"`
}

// SubmitRSVPSuccessResponse is the success envelope for POST /events/{eventID}/rsvp.
type SubmitRSVPSuccessResponse struct {
	Data  SubmitRSVPResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// RSVPListSuccessResponse is the success envelope for GET /events/{eventID}/rsvps.
type RSVPListSuccessResponse struct {
	Data  []*domain.RSVP    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitRSVP godoc
// @Summary Respond to an invitation
// @Description Records the guest's status, replacing any earlier answer. A "yes" also triggers a confirmation email.
// @Tags rsvps
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param rsvp body SubmitRSVPRequest true "Guest email and status"
// @Success 200 {object} controllers.SubmitRSVPSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [post]
func (c *RSVPController) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req SubmitRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rsvp, err := c.Service.SubmitRSVP(r.Context(), eventID, req.GuestEmail, req.Status)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SubmitRSVPResponse{Message: RSVPRecordedMessage, RSVP: rsvp})
}

// ListRSVPs godoc
// @Summary List an event's RSVPs
// @Tags rsvps
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.RSVPListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [get]
func (c *RSVPController) ListRSVPs(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	rsvps, err := c.Service.ListRSVPs(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvps)
}
