package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers transport failures and 5xx responses.
	ErrNetwork = errors.New("network error")
	// ErrTimeout is returned when a call exceeds the client's ceiling.
	ErrTimeout = errors.New("request timeout")
	// ErrAuth is returned for 401 responses. The stored credential has already
	// been dropped by the time the caller sees it.
	ErrAuth = errors.New("authentication required")
	// ErrRequest covers the remaining 4xx responses.
	ErrRequest = errors.New("request rejected")
)

// Error carries the endpoint and HTTP status next to one of the sentinels above.
type Error struct {
	Kind     error
	Method   string
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %v (HTTP %d): %s", e.Method, e.Endpoint, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %v: %s", e.Method, e.Endpoint, e.Kind, msg)
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
