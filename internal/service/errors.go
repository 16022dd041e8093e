package service

import (
	"errors"
	"net/http"
)

// Error is a domain failure carrying the HTTP status it maps to at the
// boundary. Every auth failure collapses to a generic Unauthorized message so
// the client cannot distinguish expired, malformed and unknown tokens.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// AsError unwraps a *Error from err if present.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func BadRequest(msg string) *Error   { return &Error{Status: http.StatusBadRequest, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Status: http.StatusUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Status: http.StatusForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Status: http.StatusNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Status: http.StatusConflict, Message: msg} }
