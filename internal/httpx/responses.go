package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Success   bool              `json:"success"`
	Error     string            `json:"error"`
	Code      string            `json:"code,omitempty"`
	Details   string            `json:"details,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// now is swapped in tests.
var now = time.Now

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes the standard error body.
func JSONError(w http.ResponseWriter, r *http.Request, status int, code, message, details string) {
	writeError(w, r, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// JSONValidationError writes a 400 with one message per invalid field.
func JSONValidationError(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	writeError(w, r, http.StatusBadRequest, ErrorResponse{
		Error:  "Validation failed",
		Code:   "VALIDATION_FAILED",
		Fields: fields,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	body.Success = false
	body.Timestamp = now().UTC()
	if r != nil {
		body.RequestID = RequestIDFrom(r)
	}
	JSON(w, status, body)
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
