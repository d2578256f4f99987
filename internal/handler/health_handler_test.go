package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-checklist-api/internal/database"
)

type stubPinger struct {
	err   error
	stats database.PoolStats
}

func (s stubPinger) Health(context.Context) error { return s.err }
func (s stubPinger) Stats() database.PoolStats { return s.stats }

func serveHealth(t *testing.T, h *HealthHandler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	t.Run("memory store", func(t *testing.T) {
		t.Parallel()
		rec, body := serveHealth(t, NewHealthHandler(nil))
		require.Equal(t, http.StatusOK, rec.Code)
		data := body["data"].(map[string]any)
		assert.Equal(t, "memory", data["storage"])
		assert.NotContains(t, data, "pool")
	})

	t.Run("database up", func(t *testing.T) {
		t.Parallel()
		rec, body := serveHealth(t, NewHealthHandler(stubPinger{stats: database.PoolStats{Total: 3, Idle: 2, Acquired: 1, Max: 10}}))
		require.Equal(t, http.StatusOK, rec.Code)
		data := body["data"].(map[string]any)
		assert.Equal(t, "postgres", data["storage"])
		assert.Equal(t, float64(10), data["pool"].(map[string]any)["max"])
	})

	t.Run("database down", func(t *testing.T) {
		t.Parallel()
		rec, body := serveHealth(t, NewHealthHandler(stubPinger{err: errors.New("dial tcp: refused")}))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, false, body["success"])
		assert.NotContains(t, rec.Body.String(), "refused")
	})
}
