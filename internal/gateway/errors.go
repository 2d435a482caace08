package gateway

import "errors"

// Failure taxonomy for everything the session client can report. Callers
// classify with errors.Is; every wrapped error keeps a human-readable
// description for the presentation layer.
var (
	// ErrNotReady is returned when a domain operation is attempted before
	// the session reaches Ready. No network I/O is performed.
	ErrNotReady = errors.New("gateway is not ready, authenticate first")

	// ErrBusy is returned when a connect or authenticate attempt is already
	// in flight. Attempts are rejected, not queued.
	ErrBusy = errors.New("a connection attempt is already in progress")

	// ErrTimeout is returned when connect or gateway bootstrap exceeded its
	// deadline.
	ErrTimeout = errors.New("gateway request timed out")

	// ErrTransport covers network and connection failures.
	ErrTransport = errors.New("gateway transport failure")

	// ErrDecode is returned when a response does not match the expected
	// schema.
	ErrDecode = errors.New("malformed gateway response")

	// ErrRejected is returned when the gateway answered with a non-success
	// status. Distinct from connectivity failures so "order rejected" can
	// never be mistaken for "not connected".
	ErrRejected = errors.New("rejected by gateway")

	// ErrValidation is returned by the order builder for malformed user
	// input. Input is reported unmodified, never auto-corrected.
	ErrValidation = errors.New("invalid order input")

	// ErrUnsupported is returned when the selected backend variant does not
	// expose the requested operation.
	ErrUnsupported = errors.New("operation not supported by this gateway variant")
)
