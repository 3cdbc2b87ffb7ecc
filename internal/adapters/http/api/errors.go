package api

import (
	"errors"
	"net/http"

	"github.com/okian/fixturepick/internal/adapters/repository"
	"github.com/okian/fixturepick/internal/adapters/session"
	"github.com/okian/fixturepick/internal/domain/selection"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingParam = errors.New("missing query parameter")
)

// Error annotates a failure with the handler operation that produced it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op
	}
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Wrap annotates err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind annotates err with op and classifies it as kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// classify maps an error to its HTTP status and response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrMissingParam), errors.Is(err, selection.ErrUnknownField):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, selection.ErrInvalidSelection):
		return http.StatusConflict, "invalid_selection"
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrDataFormat):
		return http.StatusServiceUnavailable, "catalog_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
