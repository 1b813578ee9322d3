package errors

import (
	gerrors "errors"
	"fmt"

	bugsnagerrors "github.com/bugsnag/bugsnag-go/v2/errors"
)

// New returns a stack-carrying error. Use NewSentinelError for errors
// that are compared with Is.
func New(text string) *bugsnagerrors.Error {
	return bugsnagerrors.New(text, 1)
}

func NewSentinelError(text string) error {
	return gerrors.New(text)
}

func Errorf(format string, a ...any) *bugsnagerrors.Error {
	return bugsnagerrors.New(fmt.Errorf(format, a...), 1)
}

// Wrap attaches a stack trace to err at the point of propagation.
// Returns nil for a nil err so it can wrap return values unconditionally.
func Wrap(err error) *bugsnagerrors.Error {
	if err == nil {
		return nil
	}
	return bugsnagerrors.New(err, 1)
}

// As unwraps through bugsnag wrappers, which hide their inner error
// from the standard errors.As chain.
func As(err error, target interface{}) bool {
	for err != nil {
		if wrapped, ok := err.(*bugsnagerrors.Error); ok {
			if gerrors.As(wrapped.Err, target) {
				return true
			}
		}
		if gerrors.As(err, target) {
			return true
		}
		err = Unwrap(err)
	}

	return false
}

// Is matches err against original, unwrapping bugsnag wrappers on
// both sides.
func Is(err error, original error) bool {
	for err != nil {
		if gerrors.Is(err, original) {
			return true
		}

		if wrapped, ok := err.(*bugsnagerrors.Error); ok {
			return Is(wrapped.Err, original)
		}

		if wrapped, ok := Unwrap(err).(*bugsnagerrors.Error); ok {
			return Is(wrapped.Err, original)
		}

		if wrapped, ok := original.(*bugsnagerrors.Error); ok {
			return Is(err, wrapped.Err)
		}

		err = Unwrap(err)
	}

	return false
}

func Unwrap(err error) error {
	if wrapped, ok := err.(*bugsnagerrors.Error); ok {
		return wrapped.Err
	}

	if wrapped, ok := gerrors.Unwrap(err).(*bugsnagerrors.Error); ok {
		return wrapped.Err
	}

	return gerrors.Unwrap(err)
}
