package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports connectivity to the hot-state store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	redis  Pinger // may be nil
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler. A nil pinger reports the process
// as alive without checking Redis.
func NewHealthHandler(redis Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{redis: redis, logger: logger}
}

// HealthCheck reports liveness plus Redis connectivity. A Redis outage
// answers 503 so load balancers rotate the instance out.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	redisStatus := "ok"

	if h.redis != nil {
		if err := h.redis.Ping(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "handler: health redis ping failed",
				slog.String("error", err.Error()),
			)
			status = http.StatusServiceUnavailable
			redisStatus = "unavailable"
		}
	}

	writeJSON(w, status, map[string]any{
		"status":    statusLabel(status),
		"redis":     redisStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func statusLabel(status int) string {
	if status == http.StatusOK {
		return "ok"
	}
	return "degraded"
}
