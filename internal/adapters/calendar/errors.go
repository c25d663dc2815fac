package calendar

import "errors"

// Sentinel kinds for calendar errors.
var (
	ErrMissingToken = errors.New("missing access token")
	ErrUnauthorized = errors.New("calendar access denied")
	ErrFetch        = errors.New("calendar fetch failed")
)
