package pixabay

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is returned when the request could not be completed
	ErrTransport = errors.New("pixabay: transport error")
	// ErrStatus is returned for non-2xx responses
	ErrStatus = errors.New("pixabay: unexpected status")
	// ErrDecode is returned when the response body is not the expected JSON shape
	ErrDecode = errors.New("pixabay: decode error")
	// ErrInvalidBaseURL is returned by NewClient for a malformed endpoint
	ErrInvalidBaseURL = errors.New("pixabay: invalid base url")
	// ErrMissingAPIKey is returned by NewClient when no key is configured
	ErrMissingAPIKey = errors.New("pixabay: api key not configured")
)

// StatusError carries the HTTP status of a failed response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pixabay: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("pixabay: unexpected status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}
