// Package httpx provides the HTTP API: JSON helpers, middleware, and the
// upload and animation handlers.
package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/wispr-app/wispr-api/internal/errors"
)

// envelope is the wire shape of error responses: a success boolean and an
// error string. Success responses carry named result keys instead (photo,
// animation) and are defined next to their handlers.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid json body"))
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// WriteError writes an error envelope with a status derived from the error's
// application code.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusFromError(err), envelope{Success: false, Error: publicMessage(err)})
}

// StatusFromError maps the application error taxonomy onto HTTP status codes.
func StatusFromError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	default:
		// Signing, storage, submission, provider, and persistence failures all
		// surface as 500 with a best-effort message.
		return http.StatusInternalServerError
	}
}

// publicMessage strips wrapped causes from server-side failures so internals
// never leak to clients. Client-addressable errors keep their message.
func publicMessage(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return "internal server error"
	}

	switch appErr.Code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeNotFound, apperrors.ErrCodeConflict,
		apperrors.ErrCodeProviderFailed, apperrors.ErrCodeMissingOutput:
		return appErr.Message
	default:
		return "internal server error"
	}
}
