package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// healthProbeTimeout bounds the store probe so a hung database still
// produces an answer.
const healthProbeTimeout = 5 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the store is reachable.
type HealthHandler struct {
	db     HealthChecker
	logger *slog.Logger
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Health probes the store with a trivial query.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health_check_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, HealthResponse{
			Status:    "unhealthy",
			Database:  "disconnected",
			Error:     err.Error(),
			Timestamp: h.now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: h.now().UTC(),
	})
}
