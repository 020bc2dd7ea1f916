package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the status classes the UI branches on.
var (
	// ErrForbidden marks a 401/403 response. Optional endpoints (the
	// referral-partner listing) treat it as "empty", not as a failure.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a 404 response.
	ErrNotFound = errors.New("not found")
)

// APIError is a backend rejection carrying the message from the response
// envelope. Mutation errors surface this message verbatim in the UI banner.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Unwrap maps the status classes onto the sentinels so callers can use
// errors.Is without inspecting codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401, 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	}
	return nil
}

// IsForbidden reports whether err is an authorization-shaped failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
