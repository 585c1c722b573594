package llm

import "errors"

// unavailableError signals a missing model file or a build without llama
// support, so callers can degrade to pass-through expansion.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates the expander cannot run,
// directly or wrapped.
func IsUnavailable(err error) bool {
	var e unavailableError
	return errors.As(err, &e)
}
