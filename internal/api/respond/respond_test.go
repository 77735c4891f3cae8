package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
)

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{model.NewValidationError("page", "bad"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", model.NewValidationError("tag", "bad")), http.StatusBadRequest},
		{fmt.Errorf("photo 3: %w", model.ErrNotFound), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		WriteServiceError(rr, c.err)
		assert.Equal(t, c.code, rr.Code, c.err.Error())

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, c.code, body.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	}
}

func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteServiceError(rr, errors.New("password=hunter2"))
	assert.NotContains(t, rr.Body.String(), "hunter2")
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotEqual(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestWriteError_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteNotFound(rr, "no such tag")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Error: "Not Found", Code: http.StatusNotFound, Message: "no such tag"}, body)
}
