package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"rsvptracker/internal/delivery/http/helpers"
	"rsvptracker/internal/domain"
)

// writeServiceError maps a service error onto the API envelope. Anything unexpected is logged and becomes a 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeValidation, validationMessage(err))
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
	}
}

// validationMessage strips the wrapping added by services ("create event: invalid input: ...").
func validationMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrInvalidInput.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
