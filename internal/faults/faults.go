// Package faults carries the error taxonomy shared by the core operations:
// validation, not-found, rate-limited and storage failures. Handlers map
// these to rejected-with-reason responses; only storage faults surface as
// generic server errors.
package faults

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
	ErrStorage     = errors.New("storage failure")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

func RateLimitedf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrRateLimited}, args...)...)
}

// Storage wraps a low-level read/parse/write error at the operation
// boundary so nothing below the taxonomy propagates to callers.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }
func IsStorage(err error) bool     { return errors.Is(err, ErrStorage) }
