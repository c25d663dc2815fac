package api

import (
	"errors"
	"net/http"

	"github.com/okian/crewmatch/internal/adapters/calendar"
	"github.com/okian/crewmatch/internal/adapters/realtime"
	"github.com/okian/crewmatch/internal/adapters/repository"
	service "github.com/okian/crewmatch/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrRateLimited  = errors.New("rate limited")
	ErrMissingEmail = errors.New("missing email")
)

// OpError records the handler operation that failed, the kind used to pick
// the response status, and the underlying cause.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	switch {
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OpError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap annotates err with op. The kind is inferred from err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

// WrapKind annotates err with op and an explicit kind.
func WrapKind(op string, kind, err error) error {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// NewKind returns an error of the given kind with no further cause.
func NewKind(op string, kind error) error {
	return &OpError{Op: op, Kind: kind}
}

type errorMapping struct {
	kind   error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{ErrMissingEmail, http.StatusBadRequest, "bad_request"},
	{repository.ErrInvalidInput, http.StatusBadRequest, "bad_request"},
	{repository.ErrInvalidLimit, http.StatusBadRequest, "bad_request"},
	{service.ErrInvalidStatus, http.StatusBadRequest, "bad_request"},
	{calendar.ErrMissingToken, http.StatusBadRequest, "bad_request"},
	{calendar.ErrUnauthorized, http.StatusUnauthorized, "calendar_unauthorized"},
	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{repository.ErrNotFound, http.StatusNotFound, "not_found"},
	{repository.ErrConflict, http.StatusConflict, "conflict"},
	{calendar.ErrFetch, http.StatusBadGateway, "calendar_unavailable"},
	{service.ErrCalendarUnavailable, http.StatusServiceUnavailable, "unavailable"},
	{service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
	{realtime.ErrClosed, http.StatusServiceUnavailable, "unavailable"},
}

// classify maps err to a response status and code.
func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
