package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorDetail contains error information returned to clients.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type errorBody struct {
	Error ErrorDetail `json:"error"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// NoContent writes a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error as a JSON response, mapping HTTPError values to their
// status codes and anything else to 500.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := ErrorDetail{Code: "internal_error", Message: err.Error()}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		detail.Code = httpErr.Key
		if httpErr.Message != "" {
			detail.Message = httpErr.Message
		} else {
			detail.Message = http.StatusText(httpErr.Code)
		}
	}

	JSON(w, status, errorBody{Error: detail})
}
