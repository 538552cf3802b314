package apierr

import (
	"errors"
	"fmt"
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

func NotFound(code string, err error) *Error {
	return New(404, code, err)
}

func BadRequest(code string, err error) *Error {
	return New(400, code, err)
}

func Conflict(code string, err error) *Error {
	return New(409, code, err)
}

// StatusOf returns the embedded HTTP status when err is (or wraps) an
// *Error, else the fallback.
func StatusOf(err error, fallback int) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return fallback
}

// CodeOf returns the embedded code when err is (or wraps) an *Error.
func CodeOf(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return fallback
}
