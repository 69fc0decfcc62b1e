package transport

import (
	"errors"
	"fmt"
)

// HTTPError is a non-2xx response. Message is what the UI shows; Diagnostic is the
// original error body, pretty-printed, for inspection.
type HTTPError struct {
	Status     int
	Message    string
	Diagnostic string
	// Structured is true when Message came from a JSON detail/message field.
	Structured bool
}

func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status.
func (e *HTTPError) StatusCode() int { return e.Status }

// NetworkError means no HTTP response was obtained (DNS, refused connection, timeout).
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusCode is always 0: there was no response.
func (e *NetworkError) StatusCode() int { return 0 }

// ParseError records a 2xx body that did not match its declared content type.
// It is attached to the Outcome and never returned to callers.
type ParseError struct {
	ContentType string
	Err         error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s body: %v", e.ContentType, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is a caller-side precondition failure, raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StatusOf returns the HTTP status carried by err, or 0 for network, validation
// and unknown errors.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// IsNetwork reports whether err is (or wraps) a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsHTTP reports whether err is (or wraps) an *HTTPError.
func IsHTTP(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
