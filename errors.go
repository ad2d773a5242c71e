package usermode

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMode matches any *InvalidModeError via errors.Is.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrTableNotExist is returned by Backend.Load when nothing has been
	// persisted yet.
	ErrTableNotExist = errors.New("mode table does not exist")
)

// InvalidModeError reports a mode string that is neither real-time nor
// background after normalization.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q: use %q or %q", e.Mode, RealTime, Background)
}

func (e *InvalidModeError) Is(target error) bool {
	return target == ErrInvalidMode
}

// FormatError reports backend content that is not a flat mapping of user id
// to mode string.
type FormatError struct {
	Source string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: not a user to mode mapping", e.Source)
	}
	return fmt.Sprintf("%s: not a user to mode mapping: %v", e.Source, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
