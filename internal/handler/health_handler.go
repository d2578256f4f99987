package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go-checklist-api/internal/database"
	"go-checklist-api/pkg/apierror"
)

const healthCheckTimeout = 2 * time.Second

type pinger interface {
	Health(ctx context.Context) error
	Stats() database.PoolStats
}

type healthStatus struct {
	Status  string              `json:"status"`
	Storage string              `json:"storage"`
	Pool    *database.PoolStats `json:"pool,omitempty"`
}

type HealthHandler struct {
	db pinger
}

// NewHealthHandler accepts a nil pinger when the memory store is in use.
func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeSuccess(w, http.StatusOK, healthStatus{Status: "ok", Storage: "memory"}, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		writeError(w, apierror.New("UNAVAILABLE", "Database unavailable", "", http.StatusServiceUnavailable))
		return
	}

	stats := h.db.Stats()
	writeSuccess(w, http.StatusOK, healthStatus{Status: "ok", Storage: "postgres", Pool: &stats}, nil)
}
