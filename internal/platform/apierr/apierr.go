package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrLocalSave is the only fatal persistence failure the API surfaces:
	// the durable local slot could not be written.
	ErrLocalSave = errors.New("local save failed")
	// ErrNotConfigured signals use of a remote-mirror feature without a
	// mirror base URL configured. A wiring bug, not a data condition.
	ErrNotConfigured = errors.New("remote mirror not configured")
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

func Unprocessable(code string, err error) *Error {
	return New(http.StatusUnprocessableEntity, code, err)
}
