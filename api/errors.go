package api

import (
	"fmt"
)

// InvalidRequestError is returned when a request cannot be assembled from the
// configured base URL, path and query parameters.
type InvalidRequestError struct {
	Reason string
	Err    error
}

func (e *InvalidRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid request: %s: %v", e.Reason, e.Err)
	}
	return "invalid request: " + e.Reason
}

func (e *InvalidRequestError) Unwrap() error { return e.Err }

// NonProtocolResponseError is returned when the transport fails before a
// well-formed HTTP response is available.
type NonProtocolResponseError struct {
	Err error
}

func (e *NonProtocolResponseError) Error() string {
	return fmt.Sprintf("no valid http response: %v", e.Err)
}

func (e *NonProtocolResponseError) Unwrap() error { return e.Err }

// UnsuccessfulStatusError is returned for any status code outside 200-299.
type UnsuccessfulStatusError struct {
	StatusCode int
	Status     string
}

func (e *UnsuccessfulStatusError) Error() string {
	if e.Status != "" {
		return "unexpected status code: " + e.Status
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// DecodeError is returned when a response body does not match the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
