package errors

import (
	"errors"
	"fmt"
)

// Terminal pipeline outcomes. Each aborts the whole extraction request when it
// fires; per-item fetch failures are handled separately and never surface here.
var (
	ErrInvalidURL         = errors.New("not a recognized post url")
	ErrRenderNavigation   = errors.New("could not reach the mirror page")
	ErrRenderTimeout      = errors.New("content did not become ready in time")
	ErrContentUnavailable = errors.New("post is deleted, private or restricted")
	ErrNoContentFound     = errors.New("no post content found in rendered page")
)

// ErrMediaTooLarge is per-item and non-fatal to the request.
var ErrMediaTooLarge = errors.New("media exceeds the configured size limit")

// Error annotates a cause with the pipeline stage that observed it.
type Error struct {
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsTerminal reports whether err is one of the outcomes that aborts a request.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrRenderNavigation) ||
		errors.Is(err, ErrRenderTimeout) ||
		errors.Is(err, ErrContentUnavailable) ||
		errors.Is(err, ErrNoContentFound)
}
