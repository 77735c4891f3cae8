// Package respond writes JSON bodies and the shared error envelope.
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WriteJSON encodes data before touching the response, so an unencodable
// value yields a plain 500 instead of a truncated body under the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		log.Error().Err(err).Int("status", status).Msg("encode response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: http.StatusText(status), Code: status, Message: message})
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteInternalError never echoes the cause; callers log it.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteServiceError maps domain errors onto status codes. Validation is 400,
// not found is 404 and anything else is logged and returned as 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case model.IsValidationError(err):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrNotFound):
		WriteNotFound(w, err.Error())
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		WriteInternalError(w, "internal error")
	}
}
