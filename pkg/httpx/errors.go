package httpx

import "net/http"

// HTTPError represents an HTTP error with status code and a stable key.
type HTTPError struct {
	Code    int    // HTTP status code
	Key     string // Stable machine-readable key (e.g. "not_found")
	Message string // Optional human-readable detail
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Key
}

var (
	ErrBadRequest      = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized    = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrForbidden       = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound        = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrConflict        = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrUnprocessable   = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
	ErrInternal        = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
	ErrTooManyRequests = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
)

// NewHTTPError creates a custom HTTP error with the given status code, key
// and human-readable message.
func NewHTTPError(code int, key, message string) HTTPError {
	return HTTPError{Code: code, Key: key, Message: message}
}

// BadRequest returns a 400 error carrying the provided message.
func BadRequest(message string) HTTPError {
	return HTTPError{Code: http.StatusBadRequest, Key: "bad_request", Message: message}
}

// NotFound returns a 404 error carrying the provided message.
func NotFound(message string) HTTPError {
	return HTTPError{Code: http.StatusNotFound, Key: "not_found", Message: message}
}
