// Package errs defines the error taxonomy recovered at the request boundary.
package errs

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation covers missing or malformed required fields.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers absent entities and entities not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied covers non-staff principals on admin operations.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrLimitExceeded covers bounded-set overflows (the promotion cap).
	ErrLimitExceeded = errors.New("limit exceeded")
	// ErrConflict covers duplicate slugs, codes, usernames and emails.
	ErrConflict = errors.New("conflict")
)

// HTTPStatus maps a domain error onto the status code surfaced to clients.
// Unknown errors map to 500; callers should log them and keep the message
// generic.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrLimitExceeded), errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
