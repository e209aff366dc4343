package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, malformed mobile number).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidOperation is returned when an operation is attempted against a
// trip of the wrong type, or names a trip or user that does not exist.
// Handlers should map this to HTTP 409 Conflict.
var ErrInvalidOperation = errors.New("invalid operation")
