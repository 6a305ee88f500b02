package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures by how the shell should react to them.
type Kind string

const (
	// ServiceUnavailable: an external AI or feed call failed or is not configured.
	// Shown to the user as a retryable notice.
	ServiceUnavailable Kind = "service_unavailable"
	// Validation: malformed user input, rejected without any state change.
	Validation Kind = "validation"
	// StorageCorruption: a persisted value could not be read back. Replaced
	// with its default and only logged.
	StorageCorruption Kind = "storage_corruption"
)

func (k Kind) Error() string { return string(k) }

// Error carries a kind, a user-facing message and the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, apperr.ServiceUnavailable) match on kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func Unavailable(msg string, err error) error {
	return &Error{Kind: ServiceUnavailable, Msg: msg, Err: err}
}

func Invalid(msg string) error {
	return &Error{Kind: Validation, Msg: msg}
}

func Corrupt(msg string, err error) error {
	return &Error{Kind: StorageCorruption, Msg: msg, Err: err}
}

// UserMessage returns the text to show in the chat for err. Errors without a
// kind get a generic notice so causes never leak into the UI.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Msg != "" {
		return ae.Msg
	}
	return "An unknown error occurred."
}
