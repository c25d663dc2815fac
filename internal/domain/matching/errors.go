package matching

import "errors"

// Sentinel kinds for matching errors.
var (
	ErrPoolFile = errors.New("invalid fallback pool file")
)
