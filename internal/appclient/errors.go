package appclient

import "errors"

// appUnavailableError signals a downstream app that cannot be reached
// (connection failure, 5xx, or missing configuration) for 503 mapping.
type appUnavailableError struct {
	app string
	msg string
}

func (e appUnavailableError) Error() string { return e.app + " unavailable: " + e.msg }

// IsAppUnavailable reports whether err indicates a downstream app outage,
// directly or wrapped.
func IsAppUnavailable(err error) bool {
	var e appUnavailableError
	return errors.As(err, &e)
}

// appError covers rejected or malformed exchanges with a reachable app.
type appError struct {
	app string
	msg string
}

func (e appError) Error() string { return e.app + ": " + e.msg }
