package rasterize

import (
	"errors"
	"fmt"
)

const (
	// ErrUsage error code
	ErrUsage = "invalid arguments"
	// ErrInvalidTimeout error code
	ErrInvalidTimeout = "invalid timeout"
	// ErrNavigation error code
	ErrNavigation = "unable to load the address"
	// ErrUnsupportedFormat error code
	ErrUnsupportedFormat = "unsupported format"
)

// Error ...
type Error struct {
	Err     error
	Code    string
	Details interface{}
}

// Error ...
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[rasterize] %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("[rasterize] %s: %v", e.Code, e.Details)
}

// Unwrap ...
func (e *Error) Unwrap() error {
	return e.Err
}

// IsError type matches
func IsError(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Code == code
}
