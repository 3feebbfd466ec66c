package service

import "errors"

// Caller-correctable policy violations surface as errors; routine absence or
// permission denial resolves to nil/false results instead so callers can
// probe without error handling machinery.
var (
	// ErrSessionQuotaExceeded means the owner already has the maximum number
	// of concurrently active sessions.
	ErrSessionQuotaExceeded = errors.New("session quota exceeded for owner")

	// ErrSessionFull means joining would exceed the session's configured
	// participant cap.
	ErrSessionFull = errors.New("session has reached max participants")

	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
