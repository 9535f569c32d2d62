// Package apperror defines the structured error type every domain
// operation fails with. The HTTP layer owns the mapping of an Error to
// the wire envelope; business code only ever attaches a status code
// and a message that is safe to show to a client.
package apperror

import "net/http"

// Error carries the HTTP status code alongside a client-safe message.
type Error struct {
	Code    int    `json:"statusCode"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error with an explicit status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// BadRequest reports failed input validation.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Conflict reports a duplicate identity (username or email taken).
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Unauthorized reports missing or invalid credentials. Callers must keep
// the message generic so login and refresh failures do not reveal which
// check rejected the request.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// NotFound reports an absent resource.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// BadGateway reports a failed call to an external collaborator, such as
// the media storage service.
func BadGateway(message string) *Error {
	return New(http.StatusBadGateway, message)
}

// Internal reports an unexpected server-side failure.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}
