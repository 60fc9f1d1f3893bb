// Package apperr carries the HTTP-facing error taxonomy: validation and
// lookup failures keep their kind all the way from the service layer to the
// response writer, everything else surfaces as a generic 500.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindBadRequest
	KindConflict
	KindUnauthorized
)

// Error - a typed domain error with a user-facing message
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func isKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func IsNotFound(err error) bool     { return isKind(err, KindNotFound) }
func IsBadRequest(err error) bool   { return isKind(err, KindBadRequest) }
func IsConflict(err error) bool     { return isKind(err, KindConflict) }
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }

// StatusCode - HTTP status for an error; unknown errors map to 500
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Write - write an error as the standard JSON envelope
func Write(w http.ResponseWriter, err error) {
	message := "Internal server error"
	var appErr *Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(err))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
