package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionInvalid means an authenticated core-API call was
	// rejected as unauthorized. It always triggers full session
	// teardown and is never surfaced to the user as an error banner.
	ErrSessionInvalid = errors.New("session invalid")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrPolicyNotFound     = errors.New("policy not found")
	ErrVehicleNotFound    = errors.New("vehicle not found")
)

// RequestFailedError is a non-401 HTTP failure from the core API. The
// message is taken from the response body's `detail` field when
// present, else a generic status-based fallback.
type RequestFailedError struct {
	Status  int
	Message string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("core api request failed (%d): %s", e.Status, e.Message)
}

// NetworkError is a transport-level failure: no HTTP response at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("core api unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
