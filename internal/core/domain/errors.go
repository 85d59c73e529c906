package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotStable indicates an action was attempted while the search
	// state was still streaming or held no single result.
	ErrNotStable = errors.New("search state is not stable")

	// ErrConfirmationDeclined indicates the user declined a destructive action.
	ErrConfirmationDeclined = errors.New("confirmation declined")

	// Transport Errors.

	// ErrTransport indicates the search stream could not be opened or broke mid-flight.
	ErrTransport = errors.New("transport failure")

	// ErrStreamClosed indicates a read was attempted on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrAuthRequired indicates the server rejected the request credentials.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// User-facing messages produced by the reducer and the stream consumer.
const (
	// MessageInvalidResult replaces a single result that carries no product name.
	MessageInvalidResult = "Invalid Result Data"

	// MessageConnectionLost is the synthetic error emitted on transport failure.
	MessageConnectionLost = "Connection to search service lost"

	// MessageDefaultNoResults is shown when the server sends no message of its own.
	MessageDefaultNoResults = "No matching products found"

	// MessageDefaultError is used when an error event carries no message.
	MessageDefaultError = "Search failed"
)
