package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted          = errors.New("service not started")
	ErrForbidden           = errors.New("not a member of this group")
	ErrInvalidStatus       = errors.New("status must be accepted or declined")
	ErrCalendarUnavailable = errors.New("calendar sync not configured")
)
