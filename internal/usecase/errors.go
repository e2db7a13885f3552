package usecase

import "errors"

// Business outcomes and faults the handlers translate to HTTP responses.
// Conflict (ErrCarUnavailable) and the terminal business errors are expected
// results, never retried; ErrStorageTimeout is the one retryable case.
var (
	ErrCarNotFound         = errors.New("car not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrCarUnavailable      = errors.New("car is not available")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidDates        = errors.New("invalid pick-up or return date")
	ErrInvalidStatusChange = errors.New("booking status can no longer be changed")
	ErrStorageTimeout      = errors.New("storage temporarily unavailable, retry later")
)
