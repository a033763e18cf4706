package classroom

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// APIError is a non-2xx response from the classroom backend. Detail
// carries the backend's own message when it sent one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("classroom api: %s (status %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("classroom api: status %d", e.StatusCode)
}

// ErrorMessage normalizes any client error into banner text. Backend
// detail wins; transport failures get a generic human-readable message;
// otherwise the caller's fallback is used.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "The server is taking too long to respond. Please try again."
	}
	if !errors.As(err, &apiErr) {
		return "Cannot reach the classroom server. Please try again."
	}

	return fallback
}
