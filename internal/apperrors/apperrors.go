package apperrors

import (
	"errors"
	"net/http"
)

var (
	// Validation / input
	ErrValidation = errors.New("validation failed")

	// Authentication (401) with sub-reasons so clients can decide
	// whether to re-authenticate or retry
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMalformedToken   = errors.New("malformed token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrBadCredentials   = errors.New("invalid credentials")

	// Authorization (403)
	ErrForbidden = errors.New("forbidden")

	// Resources
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Workflow
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status maps an application error to its HTTP status code.
// Unknown errors are treated as unexpected server failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotAuthenticated),
		errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
