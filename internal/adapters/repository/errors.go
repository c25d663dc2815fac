package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrConflict      = errors.New("record already exists")
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrInvalidInput  = errors.New("invalid record")
	ErrUnknownDriver = errors.New("unknown storage driver")
)
