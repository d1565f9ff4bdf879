package uscis

import "fmt"

// AuthenticationError reports a failed token acquisition. Status and Body
// carry the upstream response for diagnostic display in the console; both
// are zero when no response was received.
type AuthenticationError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("authentication failed: HTTP %d: %s", e.Status, truncate(e.Body, 200))
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// TransportError reports a network-level failure where no HTTP response was
// received from the endpoint at URL.
type TransportError struct {
	Op  Operation
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request to %s failed: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a non-2xx response from a data endpoint. It is produced
// only by the typed helpers; Call returns non-2xx responses verbatim.
type APIError struct {
	Status  int
	Code    string
	Message string
	TraceID string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, truncate(e.Body, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
