package remote

import "errors"

// Sentinel kinds for remote source errors.
var (
	ErrInvalidURL  = errors.New("invalid remote url")
	ErrUnavailable = errors.New("remote source unavailable")
	ErrDecode      = errors.New("malformed remote response")
)
