package errors

import "errors"

var (
	ErrInvalidSessionInput     = errors.New("invalid session input")
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionAlreadyEnded     = errors.New("session is already ended")
	ErrResultsAlreadyPublished = errors.New("results are already published")
	ErrResultsBeforeClose      = errors.New("results cannot be published before the session closes")
	ErrUnknownTransition       = errors.New("unknown lifecycle transition")
	ErrConflict                = errors.New("session conflict")
)
