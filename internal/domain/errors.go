package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidID     = errors.New("invalid id")
	ErrNoSession     = errors.New("no session")
	ErrGuestSession  = errors.New("operation not available for guest sessions")
	ErrNotConfigured = errors.New("not configured")
	ErrCanceled      = errors.New("canceled by user")
)
