package models

import "errors"

// Sentinel errors surfaced to the command layer. Handlers map these to HTTP
// status codes; the messages are shown to users verbatim.
var (
	ErrNotRegistered       = errors.New("user is not registered")
	ErrAlreadyRegistered   = errors.New("user is already registered")
	ErrWindowClosed        = errors.New("pick window is closed")
	ErrNoActivePick        = errors.New("no active pick to clear")
	ErrAlreadyResolved     = errors.New("contest result is already recorded")
	ErrContestNotFound     = errors.New("contest not found")
	ErrProviderUnavailable = errors.New("odds provider is unavailable")
)
