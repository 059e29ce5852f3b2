package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientBalance is returned when the service refuses a stake larger than the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrRejected covers any other 4xx response.
	ErrRejected = errors.New("request rejected")
	// ErrUnavailable covers 5xx responses.
	ErrUnavailable = errors.New("service unavailable")
)

const insufficientBalanceMessage = "Insufficient balance"

// StatusError is a non-2xx response from the service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status=%d)", e.Message, e.StatusCode)
}

// Unwrap maps the status to one of the package sentinels.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == 404:
		return ErrNotFound
	case e.StatusCode == 400 && e.Message == insufficientBalanceMessage:
		return ErrInsufficientBalance
	case e.StatusCode >= 500:
		return ErrUnavailable
	default:
		return ErrRejected
	}
}

// Temporary reports whether a retry may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500
}

// NetworkError wraps a transport failure; no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err carries a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
