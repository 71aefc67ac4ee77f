// Package errs provides the consolidated error taxonomy used across
// powclient: invalid-request, processing, network, serialization,
// configuration, and challenge-solving failures.
package errs

import (
	"errors"
	"fmt"
)

// ErrNoSolution is returned when every solver worker terminates without
// finding a nonce that satisfies the challenge's difficulty predicate.
var ErrNoSolution = errors.New("no solution found")

// ErrChallengeSolving wraps an unclassified failure raised while solving
// a challenge (a worker join failure, an oracle panic, etc).
var ErrChallengeSolving = errors.New("challenge solving failed")

// InvalidRequestError reports a caller-supplied argument that failed a
// precondition, such as a solver thread count below 1.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string { return "invalid request: " + e.Message }

// NewInvalidRequest constructs an InvalidRequestError.
func NewInvalidRequest(format string, args ...any) error {
	return &InvalidRequestError{Message: fmt.Sprintf(format, args...)}
}

// ProcessingError reports a server-side rejection surfaced through the
// envelope's status/message fields, or a missing expected payload field.
type ProcessingError struct {
	Status  uint16
	Message string
}

func (e *ProcessingError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("processing error (%d): %s", e.Status, e.Message)
	}
	return "processing error: " + e.Message
}

// NewProcessing constructs a ProcessingError carrying the server's
// status code and message.
func NewProcessing(status uint16, message string) error {
	return &ProcessingError{Status: status, Message: message}
}

// NetworkError wraps a transport-layer failure: connect, TLS, timeout,
// or a broken response body.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string { return "network error: " + e.Cause.Error() }
func (e *NetworkError) Unwrap() error { return e.Cause }

// NewNetwork wraps cause as a NetworkError. Returns nil if cause is nil.
func NewNetwork(cause error) error {
	if cause == nil {
		return nil
	}
	return &NetworkError{Cause: cause}
}

// SerializationError wraps a JSON decode or encode failure.
type SerializationError struct {
	Cause error
}

func (e *SerializationError) Error() string { return "serialization error: " + e.Cause.Error() }
func (e *SerializationError) Unwrap() error { return e.Cause }

// NewSerialization wraps cause as a SerializationError. Returns nil if
// cause is nil.
func NewSerialization(cause error) error {
	if cause == nil {
		return nil
	}
	return &SerializationError{Cause: cause}
}

// ConfigurationError reports a malformed configuration file or a
// constraint violation (bad URL scheme, out-of-range timeout, etc).
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Message }

// NewConfiguration constructs a ConfigurationError.
func NewConfiguration(format string, args ...any) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}
