package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/judgecore/internal/api/response"
	"github.com/mcoot/judgecore/internal/broadcast"
)

// Pinger is implemented by storage backends that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports server liveness and broadcast load
type HealthHandler struct {
	hub    *broadcast.Hub
	pinger Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler. pinger may be nil for
// backends without a remote dependency.
func NewHealthHandler(hub *broadcast.Hub, pinger Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		hub:    hub,
		pinger: pinger,
		logger: logger,
	}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats := h.hub.Stats()
	resp := response.HealthResponse{
		Status:      "ok",
		Storage:     "ok",
		Connections: stats.Connections,
		Topics:      stats.Topics,
	}

	status := http.StatusOK
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Warn("storage ping failed", slog.String("error", err.Error()))
			resp.Status = "degraded"
			resp.Storage = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	response.Live(w, status, resp)
}
