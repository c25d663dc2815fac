package realtime

import "errors"

// Sentinel kinds for realtime errors.
var (
	ErrClosed = errors.New("hub closed")
)
