package domain

import "errors"

// ErrNotFound is returned when a requested event (or RSVP) does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned when a request fails validation (bad email syntax, missing required field).
var ErrInvalidInput = errors.New("invalid input")

// ErrMailerNotConfigured is returned by a mailer that has no credentials to send with.
var ErrMailerNotConfigured = errors.New("mailer not configured")
