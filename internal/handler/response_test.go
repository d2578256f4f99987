package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-checklist-api/internal/model"
	"go-checklist-api/pkg/apierror"
)

func TestToAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"api error passes through", apierror.Conflict("taken"), apierror.CodeConflict, http.StatusConflict},
		{"wrapped sentinel", fmt.Errorf("find: %w", model.ErrChecklistNotFound), apierror.CodeNotFound, http.StatusNotFound},
		{"checklist in use", model.ErrChecklistInUse, apierror.CodeConflict, http.StatusConflict},
		{"invalid token", model.ErrInvalidToken, apierror.CodeUnauthorized, http.StatusUnauthorized},
		{"body too large", &http.MaxBytesError{Limit: 8}, "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"unknown", fmt.Errorf("boom"), apierror.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := toAPIError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.status, got.HTTPStatus)
		})
	}
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("pq: password authentication failed for user app"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "password authentication")

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, apierror.CodeInternal, body.Error.Code)
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var dst model.LoginRequest
	err := decodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &dst)
	require.Equal(t, "request body is required", toAPIError(err).Message)

	err = decodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")), &dst)
	require.Equal(t, "invalid JSON body", toAPIError(err).Message)

	err = decodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ana"}`)), &dst)
	require.NoError(t, err)
	require.Equal(t, "ana", dst.Username)
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := parseID("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-3", "abc", "9223372036854775808"} {
		_, err := parseID(raw)
		require.Error(t, err, raw)
	}
}
