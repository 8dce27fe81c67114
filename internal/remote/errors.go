// internal/remote/errors.go
//
// Fetch error taxonomy.  Every failure names the endpoint it came from so a
// split-mode fetch with several broken endpoints reads unambiguously in one
// log line.
package remote

import "fmt"

// TimeoutError reports a call that exceeded the per-request deadline.
type TimeoutError struct {
	Endpoint string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetch %s: request timed out", e.Endpoint)
}

// TransportError reports DNS, connection, or TLS failures.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response.  Body carries at most
// bodyExcerptLimit bytes of the response for operator context.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// DecodeError reports a 2xx response whose body was not the expected JSON.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("fetch %s: decode response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
