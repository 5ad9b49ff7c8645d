package service

import "errors"

// Error taxonomy surfaced to the HTTP boundary. Validation failures may also
// arrive as validator.ValidationErrors; handlers treat both as 400s.
var (
	// ErrValidation marks malformed or missing required input, detected
	// before any storage call.
	ErrValidation = errors.New("invalid input")

	// ErrFlagNotFound indicates the referenced content flag does not exist.
	ErrFlagNotFound = errors.New("content flag not found")

	// ErrFlagResolved indicates a moderation action targeted a flag already
	// in a terminal state. The flag is unchanged and no audit row is written.
	ErrFlagResolved = errors.New("content flag already resolved")

	// ErrPersistence wraps storage failures. Callers may retry at the
	// transport layer; nothing retries internally.
	ErrPersistence = errors.New("storage unavailable")
)
