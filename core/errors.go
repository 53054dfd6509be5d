package core

import (
	"errors"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrDuplicateMessage indicates an archive record already exists for the
// same (message_id, guild_id) pair. It is informational rather than fatal:
// callers typically surface the existing record instead of failing.
var ErrDuplicateMessage = errors.New("message already archived")

// ErrChannelUnavailable indicates the source channel could not be resolved
// or is not a text-bearing channel.
var ErrChannelUnavailable = errors.New("channel unavailable")

// ErrMessageNotFound indicates the source message could not be fetched
// (deleted, inaccessible, or nonexistent).
var ErrMessageNotFound = errors.New("message not found")

// ErrUpstreamTimeout indicates a Discord fetch exceeded its deadline.
var ErrUpstreamTimeout = errors.New("upstream timeout")

// ErrValidation indicates malformed filter or request parameters.
var ErrValidation = errors.New("validation error")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMessageNotFound)
}

// IsDuplicateError checks if an error is a duplicate-archive error
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateMessage)
}

// IsValidationError checks if an error stems from malformed input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
