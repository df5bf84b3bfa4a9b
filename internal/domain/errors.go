package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNetworkFailure  = errors.New("network failure")
	ErrAPIFailure      = errors.New("api failure")
	ErrCacheMiss       = errors.New("cache miss")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrRowNotFound     = errors.New("row not found")
	ErrNotReady        = errors.New("rates not loaded")
	ErrReentrant       = errors.New("propagation already in progress")
)

// APIError is returned when the rate API answers but reports a failure.
type APIError struct {
	Reason string
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return "api failure"
	}
	return "api failure: " + e.Reason
}

func (e *APIError) Is(target error) bool { return target == ErrAPIFailure }

func unknownCurrency(code string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
}
