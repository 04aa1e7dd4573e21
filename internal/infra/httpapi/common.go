package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"deadline_notification_bot/internal/domain/notification"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, ErrorResponse{Error: msg})
}

// statusFor maps a delivery or store error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, notification.ErrMissingCredential), errors.Is(err, notification.ErrMisconfigured):
		return http.StatusInternalServerError
	case errors.Is(err, notification.ErrRejected):
		return http.StatusBadRequest
	case errors.Is(err, notification.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
