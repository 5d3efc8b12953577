package api

import "fmt"

// TransportError indicates a network or authorization failure. The operation
// that produced it may be retried by the user; no captured state is lost.
type TransportError struct {
	Status int // HTTP status, 0 when the request never reached the server
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request failed (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError indicates the server rejected the request payload.
// The attempt stays open and the payload may be corrected and resubmitted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "server rejected payload: " + e.Message
}

// ErrLoggedOut is returned after the gateway has cleared credentials because
// the refresh exchange failed. Callers should route the user to login.
type ErrLoggedOut struct {
	Err error
}

func (e *ErrLoggedOut) Error() string {
	return fmt.Sprintf("session expired, logged out: %v", e.Err)
}

func (e *ErrLoggedOut) Unwrap() error { return e.Err }
