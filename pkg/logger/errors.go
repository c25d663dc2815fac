package logger

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown log backend")
	ErrUnknownLevel   = errors.New("unknown log level")
)
